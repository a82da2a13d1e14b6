package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/config"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/logger"
)

// Env holds what every command needs: the loaded configuration and a logger.
type Env struct {
	Config *config.Config
	Log    *zap.Logger
}

// NewRootCommand creates the root command for the webhookctl CLI.
func NewRootCommand() *cobra.Command {
	env := &Env{}

	cmd := &cobra.Command{
		Use:   "webhookctl",
		Short: "Operational commands for the webhook event service",
		Long:  "Run backup, notification, and seeding operations against the webhook event service directly, without going through the task queue.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Service.Environment)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			env.Config = cfg
			env.Log = log
			return nil
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(NewBackupCommand(env))
	cmd.AddCommand(NewSendWelcomeCommand(env))
	cmd.AddCommand(NewSeedProcessesCommand(env))
	cmd.AddCommand(NewWriteSheetCommand(env))

	return cmd
}
