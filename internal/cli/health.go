package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			cmdConfig, err := env.commandConfig(cmd)
			if err != nil {
				return err
			}
			client, err := env.newBackendClient()
			if err != nil {
				return err
			}

			status, err := client.Ping(cmd.Context())
			if err != nil {
				env.logger.LogError(err, "Backend health check failed", "backend", client.BaseURL())
				return err
			}
			return env.outputHandler(cmd).HandleOutput(*status, cmdConfig)
		},
	}
}
