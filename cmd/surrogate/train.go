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
	"github.com/born-ml/surrogate/internal/trainlog"
	"gonum.org/v1/gonum/mat"
)

func runTrain(ctx context.Context, args []string, stdout io.Writer, log *slog.Logger) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	configPath := fs.String("config", "hp.yaml", "Hyperparameter file (YAML or JSON)")
	dataPath := fs.String("data", "train.csv", "Training data: input columns then target columns")
	outPath := fs.String("out", "model.srgt", "Output checkpoint path")
	epochs := fs.Int("epochs", -1, "Override tf_epochs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hp, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *epochs >= 0 {
		hp.TFEpochs = *epochs
	}

	x, u, err := readDataset(*dataPath, hp)
	if err != nil {
		return err
	}
	lb, ub := dataset.Bounds(x)

	tl := trainlog.New(log, hp.LogFrequency)
	net, err := advnet.New(hp, tl, ub, lb)
	if err != nil {
		return err
	}
	log.Info("dataset loaded", "path", *dataPath, "rows", x.RawMatrix().Rows)

	if err := net.Fit(ctx, x, u); err != nil {
		return err
	}
	if err := net.Save(*outPath); err != nil {
		return err
	}
	log.Info("checkpoint saved", "run", tl.RunID(), "path", *outPath)
	fmt.Fprintf(stdout, "saved %s\n", *outPath)
	return nil
}

func readDataset(path string, hp *config.Hyperparameters) (x, u *mat.Dense, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	inputs := hp.LayersP[0]
	outputs := hp.LayersP[len(hp.LayersP)-1]
	return dataset.ReadCSV(f, inputs, outputs)
}
