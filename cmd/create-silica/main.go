package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/silica-framework/create-silica/internal/commands"
	"github.com/silica-framework/create-silica/pkg/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := commands.RootCmd()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
