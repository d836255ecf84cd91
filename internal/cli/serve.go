package cli

import (
	"fmt"

	"resumeassist/internal/config"
	"resumeassist/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a local stub of the analysis backend",
		Long: `Start an HTTP server answering the backend contracts with canned
responses, for demos and offline development.

Available endpoints:
- GET  /: Backend status message
- POST /upload: Resume feedback (multipart field "resume")
- POST /compare: Compare two resumes (multipart fields "resume1", "resume2")
- POST /tailor-resume: Tailored resume (JSON resume_text, job_description)
- POST /generate-cover-letter: Cover letter (multipart "resume", "job_description")
- POST /chatbot: Support chat (JSON message)
- GET  /health, /stats, /metrics: Operational endpoints

TLS Configuration:
- Use --tls-mode server with --cert-file and --key-file to serve https`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	cmd.Flags().String("host", "", "Host to bind to (default from config)")
	cmd.Flags().String("fixtures", "", "JSON file overriding the canned responses")
	cmd.Flags().String("tls-mode", "", "TLS mode: disabled, server (overrides config)")
	cmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	cmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	return cmd
}

// applyServeFlags copies explicitly set flags over the loaded server config
func applyServeFlags(cmd *cobra.Command, cfg *config.ServerConfig) {
	overrides := map[string]*string{
		"port":      &cfg.Port,
		"host":      &cfg.Host,
		"fixtures":  &cfg.FixturesFile,
		"tls-mode":  &cfg.TLS.Mode,
		"cert-file": &cfg.TLS.CertFile,
		"key-file":  &cfg.TLS.KeyFile,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	applyServeFlags(cmd, &env.cfg.Server)

	// Validate TLS configuration after applying overrides
	if err := env.cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	srv, err := server.NewServer(env.cfg.Server, Version, env.logger)
	if err != nil {
		return err
	}
	return srv.Start(cmd.Context(), env.om)
}
