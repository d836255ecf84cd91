package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"resumeassist/internal/common"
	"resumeassist/internal/config"
	"resumeassist/internal/errors"
	"resumeassist/internal/observability"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}
type observabilityKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}
var observabilityKey = observabilityKeyType{}

func newRootCmd() *cobra.Command {
	var backendURL string

	rootCmd := &cobra.Command{
		Use:   "resumeassist",
		Short: "A terminal client for an AI resume assistant",
		Long: `Resumeassist sends resumes and job descriptions to a remote analysis
service and shows what it answers: feedback and ATS scores, side-by-side
comparisons, tailored resumes, cover letters and a support chat.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if backendURL == "" {
				return nil
			}
			if err := config.ValidateBaseURL(backendURL); err != nil {
				return errors.NewConfigError(errors.ErrCodeInvalidConfig, "Invalid --backend-url", err)
			}
			cfg.Backend.BaseURL = backendURL
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&backendURL, "backend-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().String("format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newUploadCmd(),
		newCompareCmd(),
		newTailorCmd(),
		newCoverLetterCmd(),
		newChatCmd(),
		newPrefsCmd(),
		newHealthCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command named by the process arguments
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger, om *observability.ObservabilityManager) error {
	return execute(ctx, newRootCmd(), cfg, logger, om)
}

func execute(ctx context.Context, rootCmd *cobra.Command, cfg *config.Config, logger *errors.Logger, om *observability.ObservabilityManager) error {
	// Attach the config, logger and observability manager to the context,
	// making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	ctx = context.WithValue(ctx, observabilityKey, om)

	err := rootCmd.ExecuteContext(ctx)
	// a failed submission has already shown its message
	if err != nil && !stderrors.Is(err, common.ErrSubmissionFailed) {
		_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok && cfg != nil {
		return cfg, nil
	}
	return nil, errors.NewInternalError("MISSING_CONFIG", "config not found in context", nil)
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok && logger != nil {
		return logger, nil
	}
	return nil, errors.NewInternalError("MISSING_LOGGER", "logger not found in context", nil)
}

// getObservabilityFromContext returns the manager from ctx, or a disabled
// one when none was attached
func getObservabilityFromContext(ctx context.Context) *observability.ObservabilityManager {
	if om, ok := ctx.Value(observabilityKey).(*observability.ObservabilityManager); ok && om != nil {
		return om
	}
	return observability.NewDisabledManager()
}
