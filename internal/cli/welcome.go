package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/notify"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/tasks"
)

// NewSendWelcomeCommand creates the send-welcome command. The welcome message
// goes through the same two-tier dispatcher as every other notification: bot
// DM first, channel webhook once on failure.
func NewSendWelcomeCommand(env *Env) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "send-welcome",
		Short: "Send the Slack welcome message",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := env.Config.Slack
			if userID != "" {
				cfg.DMUserID = userID
			}

			dispatcher, err := tasks.DirectMessageDispatcher(cfg, env.Log)
			if err != nil {
				return err
			}

			result, err := dispatcher.Notify(cmd.Context(), notify.WelcomeMessage())
			if err != nil {
				return fmt.Errorf("welcome message failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Welcome message sent via %s\n", result.DeliveredVia)
			if result.PrimaryErr != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Primary transport error: %v\n", result.PrimaryErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "Slack user ID (default: from configuration)")

	return cmd
}
