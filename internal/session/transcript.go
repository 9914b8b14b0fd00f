package session

import "github.com/ccastromar/gemcli/internal/llm"

// Transcript is the ordered conversation history of one session. It is
// owned by the driver; the API caller only ever sees snapshots.
type Transcript struct {
	turns []llm.Turn
}

func (t *Transcript) AppendUser(text string) {
	t.turns = append(t.turns, llm.Turn{Role: llm.RoleUser, Text: text})
}

func (t *Transcript) AppendModel(text string) {
	t.turns = append(t.turns, llm.Turn{Role: llm.RoleModel, Text: text})
}

// RemoveLast drops the most recent turn. Removing from an empty transcript
// is a no-op so a rollback can never underflow.
func (t *Transcript) RemoveLast() {
	if len(t.turns) == 0 {
		return
	}
	t.turns = t.turns[:len(t.turns)-1]
}

func (t *Transcript) Clear() {
	t.turns = nil
}

func (t *Transcript) Len() int {
	return len(t.turns)
}

// Turns returns a snapshot copy, safe to hand to the API caller.
func (t *Transcript) Turns() []llm.Turn {
	cp := make([]llm.Turn, len(t.turns))
	copy(cp, t.turns)
	return cp
}
