package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/ccastromar/gemcli/internal/llm"
	"github.com/ccastromar/gemcli/internal/logx"
)

// State of the conversation loop.
type State int

const (
	StateIdle State = iota
	StateAwaitingInput
	StateCalling
	StateDisplaying
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateCalling:
		return "calling"
	case StateDisplaying:
		return "displaying"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// action is the decision taken on one input line, free of any I/O so the
// transition logic stays testable without a console.
type action int

const (
	actionSend action = iota
	actionSkip
	actionClear
	actionExit
)

// classify decides what to do with one input line. exit, quit and cls are
// exact case-sensitive matches; blank lines are skipped.
func classify(input string) action {
	switch input {
	case "exit", "quit":
		return actionExit
	case "cls":
		return actionClear
	}
	if strings.TrimSpace(input) == "" {
		return actionSkip
	}
	return actionSend
}

// Driver runs one session, single-shot or interactive. It owns the
// transcript and is the only thing that mutates it.
type Driver struct {
	client     llm.Client
	model      string
	transcript *Transcript
	out        io.Writer
	id         string
}

func NewDriver(client llm.Client, model string, out io.Writer) *Driver {
	return &Driver{
		client:     client,
		model:      model,
		transcript: &Transcript{},
		out:        out,
		id:         uuid.NewString(),
	}
}

// Transcript exposes the session history.
func (d *Driver) Transcript() *Transcript {
	return d.transcript
}

// RunOnce sends a single user turn and prints the reply. A failed call
// prints nothing and is not an error for the process.
func (d *Driver) RunOnce(ctx context.Context, prompt string) {
	logx.Debug("Session", "[%s] state=%s", d.id, StateCalling)
	reply, err := d.client.Generate(ctx, []llm.Turn{{Role: llm.RoleUser, Text: prompt}})
	if err != nil {
		logx.Error("Session", "[%s] generate: %v", d.id, err)
		return
	}
	logx.Debug("Session", "[%s] state=%s", d.id, StateDisplaying)
	fmt.Fprintln(d.out, reply)
}

// RunInteractive reads lines from in until exit, quit or EOF, resending the
// whole transcript on every call.
func (d *Driver) RunInteractive(ctx context.Context, in io.Reader) error {
	d.printBanner()

	scanner := bufio.NewScanner(in)
	state := StateAwaitingInput
	for state != StateTerminated {
		fmt.Fprint(d.out, "> ")
		if !scanner.Scan() {
			break
		}
		state = d.step(ctx, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	logx.S(d.id, "Session", "session ended, %d turns", d.transcript.Len())
	return nil
}

// step runs one transition out of AwaitingInput and returns the next state.
func (d *Driver) step(ctx context.Context, input string) State {
	switch classify(input) {
	case actionExit:
		return StateTerminated
	case actionClear:
		d.transcript.Clear()
		d.clearScreen()
		fmt.Fprintln(d.out, "Conversation cleared.")
		return StateAwaitingInput
	case actionSkip:
		return StateAwaitingInput
	}

	d.transcript.AppendUser(input)
	logx.Debug("Session", "[%s] state=%s turns=%d", d.id, StateCalling, d.transcript.Len())
	reply, err := d.client.Generate(ctx, d.transcript.Turns())
	if err != nil {
		// restore the pre-call transcript, never leave a dangling user turn
		d.transcript.RemoveLast()
		logx.Error("Session", "[%s] generate: %v", d.id, err)
		return StateAwaitingInput
	}
	d.transcript.AppendModel(reply)
	logx.Debug("Session", "[%s] state=%s", d.id, StateDisplaying)
	fmt.Fprintf(d.out, "%s\n\n", reply)
	return StateAwaitingInput
}

func (d *Driver) printBanner() {
	fmt.Fprintf(d.out, "gemcli interactive chat (model: %s)\n", d.model)
	fmt.Fprintln(d.out, "Commands: exit | quit | cls")
	fmt.Fprintln(d.out)
}

func (d *Driver) clearScreen() {
	fmt.Fprint(d.out, "\033[2J\033[H")
}
