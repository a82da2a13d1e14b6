package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/sheets"
)

// NewWriteSheetCommand creates the write-sheet command.
func NewWriteSheetCommand(env *Env) *cobra.Command {
	var worksheet string

	cmd := &cobra.Command{
		Use:   "write-sheet <value>...",
		Short: "Append a row of values to the configured Google Sheet",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			writer, err := sheets.NewWriter(ctx, env.Config.Sheets, env.Log)
			if err != nil {
				return err
			}

			row := make([]interface{}, 0, len(args))
			for _, v := range args {
				row = append(row, v)
			}

			if err := writer.AppendRow(ctx, worksheet, row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d value(s) to worksheet %q\n", len(row), worksheet)
			return nil
		},
	}

	cmd.Flags().StringVar(&worksheet, "worksheet", "Sheet1", "target worksheet name")

	return cmd
}
