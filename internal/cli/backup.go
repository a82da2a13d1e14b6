package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/backup"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store/postgres"
)

// NewBackupCommand creates the backup command. It runs the reconcile inline
// rather than through the queue, so the result is printed to the operator.
func NewBackupCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Backup process scripts to the GitHub repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dbClient, err := postgres.NewClient(ctx, env.Config.Database, env.Log)
			if err != nil {
				return err
			}
			defer dbClient.Close()

			processes := postgres.NewProcessRepo(dbClient, env.Log)
			svc := backup.NewGitHubService(processes, env.Config.GitHub, env.Log)

			fmt.Fprintln(cmd.OutOrStdout(), "Starting GitHub backup...")
			result, err := svc.Run(ctx)
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Backup completed")
			fmt.Fprintf(out, "  Status:     %s\n", result.Status)
			fmt.Fprintf(out, "  Total:      %d\n", result.Total)
			fmt.Fprintf(out, "  Created:    %d\n", result.Created)
			fmt.Fprintf(out, "  Updated:    %d\n", result.Updated)
			fmt.Fprintf(out, "  Unchanged:  %d\n", result.Unchanged)
			if result.RepositoryURL != "" {
				fmt.Fprintf(out, "  Repository: %s\n", result.RepositoryURL)
			}
			if len(result.Errors) > 0 {
				fmt.Fprintln(out, "Errors encountered:")
				for _, recordErr := range result.Errors {
					fmt.Fprintf(out, "  - %s: %s\n", recordErr.Code, recordErr.Message)
				}
			}
			return nil
		},
	}
}
