package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccastromar/gemcli/internal/llm"
)

type fakeClient struct {
	reply string
	err   error
	calls int
	seen  [][]llm.Turn
}

func (f *fakeClient) Generate(ctx context.Context, turns []llm.Turn) (string, error) {
	f.calls++
	cp := make([]llm.Turn, len(turns))
	copy(cp, turns)
	f.seen = append(f.seen, cp)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func runScript(t *testing.T, fc *fakeClient, script string) (*Driver, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	d := NewDriver(fc, "gemini-2.5-flash", out)
	require.NoError(t, d.RunInteractive(context.Background(), strings.NewReader(script)))
	return d, out
}

func TestClassify(t *testing.T) {
	cases := []struct {
		input string
		want  action
	}{
		{"exit", actionExit},
		{"quit", actionExit},
		{"cls", actionClear},
		{"", actionSkip},
		{"   ", actionSkip},
		{"\t", actionSkip},
		{"Exit", actionSend},
		{"QUIT", actionSend},
		{"hello", actionSend},
		{" exit ", actionSend}, // exact match only
	}
	for _, c := range cases {
		require.Equal(t, c.want, classify(c.input), "input %q", c.input)
	}
}

func TestDriver_Interactive_SuccessAppendsBothTurns(t *testing.T) {
	fc := &fakeClient{reply: "Hey"}
	d, out := runScript(t, fc, "Hi\nexit\n")

	require.Equal(t, 1, fc.calls)
	require.Equal(t, []llm.Turn{
		{Role: llm.RoleUser, Text: "Hi"},
		{Role: llm.RoleModel, Text: "Hey"},
	}, d.Transcript().Turns())
	require.Contains(t, out.String(), "Hey")
}

func TestDriver_Interactive_FailureRollsBack(t *testing.T) {
	fc := &fakeClient{err: errors.New("boom")}
	d, _ := runScript(t, fc, "Hi\nexit\n")

	require.Equal(t, 1, fc.calls)
	require.Equal(t, 0, d.Transcript().Len())
}

func TestDriver_Interactive_TranscriptGrowsAcrossTurns(t *testing.T) {
	fc := &fakeClient{reply: "ok"}
	d, _ := runScript(t, fc, "one\ntwo\nexit\n")

	require.Equal(t, 2, fc.calls)
	require.Equal(t, 4, d.Transcript().Len())
	// the second call must resend the whole history plus the new turn
	require.Len(t, fc.seen[1], 3)
	require.Equal(t, "one", fc.seen[1][0].Text)
	require.Equal(t, "ok", fc.seen[1][1].Text)
	require.Equal(t, "two", fc.seen[1][2].Text)
}

func TestDriver_Interactive_ClsClearsWithoutCall(t *testing.T) {
	fc := &fakeClient{}
	d, out := runScript(t, fc, "cls\nexit\n")

	require.Equal(t, 0, fc.calls)
	require.Equal(t, 0, d.Transcript().Len())
	require.Contains(t, out.String(), "Conversation cleared.")
}

func TestDriver_Interactive_ClsClearsExistingTranscript(t *testing.T) {
	fc := &fakeClient{reply: "Hey"}
	d, _ := runScript(t, fc, "Hi\ncls\nexit\n")

	require.Equal(t, 1, fc.calls)
	require.Equal(t, 0, d.Transcript().Len())
}

func TestDriver_Interactive_BlankInputSkipped(t *testing.T) {
	fc := &fakeClient{}
	d, _ := runScript(t, fc, "\n   \nexit\n")

	require.Equal(t, 0, fc.calls)
	require.Equal(t, 0, d.Transcript().Len())
}

func TestDriver_Interactive_ExitIsCaseSensitive(t *testing.T) {
	fc := &fakeClient{reply: "ok"}
	_, _ = runScript(t, fc, "Exit\nexit\n")

	// "Exit" is a prompt, not a command
	require.Equal(t, 1, fc.calls)
}

func TestDriver_Interactive_EOFEndsSession(t *testing.T) {
	fc := &fakeClient{reply: "ok"}
	_, _ = runScript(t, fc, "Hi\n")

	require.Equal(t, 1, fc.calls)
}

func TestDriver_Interactive_BannerNamesModel(t *testing.T) {
	fc := &fakeClient{}
	_, out := runScript(t, fc, "exit\n")

	require.Contains(t, out.String(), "gemini-2.5-flash")
}

func TestDriver_RunOnce_PrintsReply(t *testing.T) {
	fc := &fakeClient{reply: "Hello"}
	out := &bytes.Buffer{}
	d := NewDriver(fc, "m", out)

	d.RunOnce(context.Background(), "Hi")

	require.Equal(t, 1, fc.calls)
	require.Equal(t, []llm.Turn{{Role: llm.RoleUser, Text: "Hi"}}, fc.seen[0])
	require.Equal(t, "Hello\n", out.String())
}

func TestDriver_RunOnce_FailurePrintsNothing(t *testing.T) {
	fc := &fakeClient{err: errors.New("boom")}
	out := &bytes.Buffer{}
	d := NewDriver(fc, "m", out)

	d.RunOnce(context.Background(), "Hi")

	require.Equal(t, 1, fc.calls)
	require.Empty(t, out.String())
}
