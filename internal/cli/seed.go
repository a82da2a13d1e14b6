package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store/postgres"
)

var sampleProcesses = []*domain.Process{
	{
		Code: "hello_world",
		Name: "Hello World Script",
		Script: `#!/usr/bin/env python3
"""
Simple Hello World script.
"""

def main():
    print("Hello, World!")
    print("This is a sample process script.")

if __name__ == "__main__":
    main()
`,
	},
	{
		Code: "data_processor",
		Name: "Data Processor",
		Script: `#!/usr/bin/env python3
"""
Data processing script.
"""
import json
from datetime import datetime

def process_data(data):
    """Process incoming data."""
    print(f"Processing data at {datetime.now()}")

    results = []
    for item in data:
        processed_item = {
            'original': item,
            'processed': item.upper() if isinstance(item, str) else item,
            'timestamp': datetime.now().isoformat()
        }
        results.append(processed_item)

    return results

def main():
    sample_data = ['hello', 'world', 'python']
    results = process_data(sample_data)
    print(json.dumps(results, indent=2))

if __name__ == "__main__":
    main()
`,
	},
}

// NewSeedProcessesCommand creates the seed-processes command.
func NewSeedProcessesCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-processes",
		Short: "Create sample process records in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dbClient, err := postgres.NewClient(ctx, env.Config.Database, env.Log)
			if err != nil {
				return err
			}
			defer dbClient.Close()

			if err := dbClient.InitSchema(ctx); err != nil {
				return err
			}

			processes := postgres.NewProcessRepo(dbClient, env.Log)

			var created int
			for _, p := range sampleProcesses {
				isNew, err := processes.Upsert(ctx, p)
				if err != nil {
					return fmt.Errorf("failed to seed process %s: %w", p.Code, err)
				}
				if isNew {
					created++
					fmt.Fprintf(cmd.OutOrStdout(), "Created process: %s\n", p.Code)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Process already exists: %s\n", p.Code)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Done: %d of %d created\n", created, len(sampleProcesses))
			return nil
		},
	}
}
