package main

import (
	"fmt"
	"os"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
