// Package main provides the surrogate CLI: train, evaluate and inspect
// surrogate networks from hyperparameter files and CSV data.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const version = "v0.1.0-dev"

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string, stdout io.Writer, log *slog.Logger) error
}

var commands = []command{
	{"train", "Train model P on a CSV dataset and save a checkpoint", runTrain},
	{"predict", "Evaluate a checkpoint on CSV inputs", runPredict},
	{"summary", "Print the architecture of model P", runSummary},
	{"version", "Show version and host CPU", runVersion},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(ctx, os.Args[1:], os.Stdout, log); err != nil {
		log.Error("surrogate failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, log *slog.Logger) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(ctx, args[1:], stdout, log)
		}
	}
	usage(stdout)
	return fmt.Errorf("unknown command %q", args[0])
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "surrogate %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.usage)
	}
}
