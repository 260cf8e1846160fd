package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/born-ml/surrogate/advnet"
	"github.com/born-ml/surrogate/internal/config"
	"github.com/born-ml/surrogate/internal/dataset"
)

func runPredict(_ context.Context, args []string, stdout io.Writer, log *slog.Logger) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	configPath := fs.String("config", "hp.yaml", "Hyperparameter file the checkpoint was trained with")
	modelPath := fs.String("model", "model.srgt", "Checkpoint to evaluate")
	dataPath := fs.String("data", "x.csv", "Input data, one row per point")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hp, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	f, err := os.Open(*dataPath)
	if err != nil {
		return fmt.Errorf("open inputs: %w", err)
	}
	defer f.Close()

	x, _, err := dataset.ReadCSV(f, hp.LayersP[0], 0)
	if err != nil {
		return err
	}

	lb, ub := dataset.Bounds(x)
	net, err := advnet.New(hp, nil, ub, lb)
	if err != nil {
		return err
	}
	if err := net.Load(*modelPath); err != nil {
		return err
	}

	pred, err := net.Predict(x)
	if err != nil {
		return err
	}
	log.Debug("predicted", "rows", pred.RawMatrix().Rows)
	return dataset.WriteCSV(stdout, pred)
}
