package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/siswa/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{
		Logger: logger,
		Input:  os.Stdin,
	})

	app := runner.rootCommand()

	err := app.Run(ctx, os.Args)
	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close storage", "error", cerr)
	}
	if err != nil {
		if errors.Is(err, shared.ErrConfirmationRequired) {
			logger.Warn("cancelled")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
