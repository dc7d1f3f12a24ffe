package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonhull/ranger/internal/commands"
	"github.com/simonhull/ranger/output"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.GenerateCmd())
	rootCmd.AddCommand(commands.InspectCmd())
	rootCmd.AddCommand(commands.ManCmd())
	rootCmd.AddCommand(commands.AutocompleteCmd())

	// Interrupts cancel the context so a running generation rolls back.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}
