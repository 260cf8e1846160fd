package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/born-ml/surrogate/advnet"
	"github.com/born-ml/surrogate/internal/config"
)

func runSummary(_ context.Context, args []string, stdout io.Writer, _ *slog.Logger) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	configPath := fs.String("config", "hp.yaml", "Hyperparameter file (YAML or JSON)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hp, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	net, err := advnet.New(hp, nil, nil, nil)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, net.Summary())
	return nil
}
