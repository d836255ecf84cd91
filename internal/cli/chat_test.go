package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeassist/internal/chat"
)

type echoReplier struct{}

func (echoReplier) Reply(_ context.Context, message string) (string, error) {
	return "echo: " + message, nil
}

func TestChatLoopStopsOnCancelWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- chatLoop(ctx, pr, chat.NewSession(echoReplier{})) }()

	// nothing is ever written, so the loop is blocked waiting for a line
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("chat loop kept waiting for input after cancellation")
	}
}

func TestChatLoopSendsLinesUntilEOF(t *testing.T) {
	pr, pw := io.Pipe()
	session := chat.NewSession(echoReplier{}, chat.WithGreeting(""))

	done := make(chan error, 1)
	go func() { done <- chatLoop(context.Background(), pr, session) }()

	_, err := io.WriteString(pw, "hello\n\nagain\n")
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("chat loop did not return at end of input")
	}

	var texts []string
	for _, m := range session.Transcript() {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"hello", "echo: hello", "again", "echo: again"}, texts)
}
