package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync/atomic"

	"resumeassist/internal/chat"
	"resumeassist/internal/errors"
	"resumeassist/internal/formatters"
	"resumeassist/internal/preference"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the resume support bot",
		Long: `Start an interactive chat with the support bot. Type a message and
press Enter to send it; /quit or Ctrl-D ends the session.
Use -m to send a single message and print the reply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, message)
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "Send one message and exit")
	return cmd
}

func runChat(cmd *cobra.Command, message string) error {
	ctx := cmd.Context()
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	client, err := env.newBackendClient()
	if err != nil {
		return err
	}

	var dark atomic.Bool
	stopWatching := env.followTheme(ctx, &dark)
	defer stopWatching()

	out := cmd.OutOrStdout()
	session := chat.NewSession(client,
		chat.WithGreeting(env.cfg.Chat.Greeting),
		chat.WithErrorText(env.cfg.Chat.ErrorMessage),
		chat.WithLogger(env.logger),
		chat.WithRecorder(env.om))

	oneShot := cmd.Flags().Changed("message")
	if !oneShot {
		for _, m := range session.Transcript() {
			formatters.ThemeFor(dark.Load()).WriteMessage(out, m)
		}
	}

	unsubscribe := session.Subscribe(func(ev chat.Event) {
		theme := formatters.ThemeFor(dark.Load())
		switch {
		case ev.Kind == chat.MessageAppended:
			theme.WriteMessage(out, ev.Message)
		case ev.Kind == chat.TypingChanged && ev.Typing && !oneShot:
			theme.WriteTyping(out)
		}
	})
	defer unsubscribe()

	if oneShot {
		if _, sent := session.SendMessage(ctx, message); !sent {
			return errors.NewValidationError(errors.ErrCodeMissingInput, "Message must not be blank", nil)
		}
		return nil
	}

	env.logger.Debug("Chat session started", "backend", client.BaseURL())
	formatters.ThemeFor(dark.Load()).WriteNote(out, "Type a message and press Enter. /quit to leave.")
	return chatLoop(ctx, cmd.InOrStdin(), session)
}

// chatLoop sends each input line until EOF, /quit or cancellation. Lines are
// read on their own goroutine so cancellation is seen while waiting for
// input; that goroutine ends when the reader does.
func chatLoop(ctx context.Context, in io.Reader, session *chat.Session) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			line = strings.TrimSpace(line)
			if line == "/quit" || line == "/exit" {
				return nil
			}
			// blank lines are ignored by the session
			session.SendMessage(ctx, line)
		}
	}
}

// followTheme keeps dark in sync with the stored preference, including
// changes made by another process while the chat is open
func (e *commandEnv) followTheme(ctx context.Context, dark *atomic.Bool) func() {
	store, err := e.openPreferences(ctx)
	if err != nil {
		e.logger.Warn("Preferences unavailable, using light theme", "error", err)
		return func() {}
	}
	dark.Store(store.DarkMode())
	unsubscribe := store.Subscribe(dark.Store)

	var watcher *preference.Watcher
	if e.cfg.Preferences.Watch {
		watcher = preference.NewWatcher(store.Path(), e.cfg.Preferences.DebounceDelay,
			func() { store.Reload(context.Background()) }, e.logger)
		if err := watcher.Start(); err != nil {
			e.logger.Warn("Failed to watch preferences", "path", store.Path(), "error", err)
			watcher = nil
		}
	}

	return func() {
		if watcher != nil {
			_ = watcher.Stop()
		}
		unsubscribe()
		_ = store.Close()
	}
}
