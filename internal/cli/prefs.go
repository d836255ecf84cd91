package cli

import (
	"context"
	"fmt"
	"io"

	"resumeassist/internal/formatters"
	"resumeassist/internal/preference"

	"github.com/spf13/cobra"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change UI preferences",
		Long:  `Show, toggle or watch the dark mode preference shared by every command.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the current dark mode setting",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPreferences(cmd, func(ctx context.Context, store *preference.Store) error {
					printDarkMode(cmd.OutOrStdout(), store.DarkMode())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Flip dark mode and save it",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPreferences(cmd, func(ctx context.Context, store *preference.Store) error {
					dark, err := store.Toggle(ctx)
					if err != nil {
						return err
					}
					printDarkMode(cmd.OutOrStdout(), dark)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Print dark mode changes as they are saved",
			Args:  cobra.NoArgs,
			RunE:  runPrefsWatch,
		},
	)
	return cmd
}

func withPreferences(cmd *cobra.Command, fn func(ctx context.Context, store *preference.Store) error) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	store, err := env.openPreferences(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(cmd.Context(), store)
}

func runPrefsWatch(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	return withPreferences(cmd, func(ctx context.Context, store *preference.Store) error {
		out := cmd.OutOrStdout()
		printDarkMode(out, store.DarkMode())

		unsubscribe := store.Subscribe(func(dark bool) { printDarkMode(out, dark) })
		defer unsubscribe()

		watcher := preference.NewWatcher(store.Path(), env.cfg.Preferences.DebounceDelay,
			func() { store.Reload(ctx) }, env.logger)
		if err := watcher.Start(); err != nil {
			return err
		}
		defer func() { _ = watcher.Stop() }()

		formatters.ThemeFor(store.DarkMode()).WriteNote(out, "Watching %s (Ctrl-C to stop)", store.Path())
		<-ctx.Done()
		return nil
	})
}

func printDarkMode(w io.Writer, dark bool) {
	theme := formatters.ThemeFor(dark)
	state := "off"
	if dark {
		state = "on"
	}
	_, _ = fmt.Fprintf(w, "Dark mode: %s (theme: %s)\n", state, theme.Name())
}
