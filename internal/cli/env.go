package cli

import (
	"context"

	"resumeassist/internal/common"
	"resumeassist/internal/config"
	"resumeassist/internal/errors"
	"resumeassist/internal/observability"
	"resumeassist/internal/preference"
	"resumeassist/internal/remote"

	"github.com/spf13/cobra"
)

// commandEnv bundles what every command pulls out of its context
type commandEnv struct {
	cfg    *config.Config
	logger *errors.Logger
	om     *observability.ObservabilityManager
}

func loadEnv(cmd *cobra.Command) (*commandEnv, error) {
	ctx := cmd.Context()
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return nil, err
	}
	logger, err := getLoggerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return &commandEnv{cfg: cfg, logger: logger, om: getObservabilityFromContext(ctx)}, nil
}

// newBackendClient builds the remote client with traced transport
func (e *commandEnv) newBackendClient() (*remote.Client, error) {
	return remote.NewClient(e.cfg.Backend, e.logger, remote.WithTransportWrapper(e.om.HTTPTransport))
}

// openPreferences opens the configured preference store
func (e *commandEnv) openPreferences(ctx context.Context) (*preference.Store, error) {
	backend, err := preference.Open(e.cfg.Preferences)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodePreferenceStore, "Failed to open preferences", err).
			WithContext("path", e.cfg.Preferences.Path)
	}
	return preference.NewStore(ctx, backend, e.logger), nil
}

// darkMode reads the stored theme preference, falling back to light
func (e *commandEnv) darkMode(ctx context.Context) bool {
	store, err := e.openPreferences(ctx)
	if err != nil {
		e.logger.Warn("Preferences unavailable, using light theme", "error", err)
		return false
	}
	defer func() { _ = store.Close() }()
	return store.DarkMode()
}

// commandConfig resolves the output flags against configuration
func (e *commandEnv) commandConfig(cmd *cobra.Command) (common.CommandConfig, error) {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	// Apply default format if not specified
	if format == "" {
		format = e.cfg.App.DefaultFormat
	}
	if err := common.ValidateOutputFormat(format, e.cfg.App.SupportedFormats); err != nil {
		return common.CommandConfig{}, err
	}

	return common.CommandConfig{
		OutputFile:   output,
		OutputFormat: format,
		MaxFileSize:  e.cfg.App.MaxFileSize,
		DarkMode:     e.darkMode(cmd.Context()),
	}, nil
}

// outputHandler writes to the command's streams so tests can capture them
func (e *commandEnv) outputHandler(cmd *cobra.Command) *common.OutputHandler {
	oh := common.NewOutputHandler(e.logger)
	oh.Stdout = cmd.OutOrStdout()
	oh.Stderr = cmd.ErrOrStderr()
	return oh
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
