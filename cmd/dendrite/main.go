// Package main provides the dendrite CLI: train, evaluate and apply
// regression models stored as computation graphs.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dendrite-ml/dendrite/regression"
)

const version = "v0.1.0-dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "dendrite %s\n", version)
		return nil
	case "train":
		return train(args[1:], stdout, stderr)
	case "eval":
		return eval(args[1:], stdout, stderr)
	case "predict":
		return predict(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "dendrite %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  train      Fit a model to a CSV file and save it")
	fmt.Fprintln(w, "  eval       Report the loss of a saved model on a CSV file")
	fmt.Fprintln(w, "  predict    Print predictions of a saved model")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'dendrite <command> -h' for flags.")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func train(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataPath := fs.String("data", "", "CSV file with features and a target column (required)")
	kind := fs.String("model", string(regression.KindLinear), "Model kind: linear, logistic or softmax")
	epochs := fs.Int("epochs", 1000, "Number of training epochs")
	lr := fs.Float64("lr", 0.01, "Learning rate in (0, 1]")
	optimizer := fs.String("optimizer", regression.OptimizerSGD, "Optimizer: sgd or adam")
	momentum := fs.Float64("momentum", 0, "SGD momentum")
	batch := fs.Int("batch", 0, "Mini-batch size (0 = full batch)")
	seed := fs.Int64("seed", 1, "Shuffle seed for mini-batches (negative = random)")
	classes := fs.Int("classes", 0, "Number of classes for softmax (0 = infer from labels)")
	out := fs.String("out", "model", "Directory to save the trained model")
	verbose := fs.Bool("v", false, "Log training progress")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" {
		return fmt.Errorf("train: -data is required")
	}

	logger := newLogger(stderr, *verbose)
	k := regression.Kind(*kind)
	data, err := loadCSV(*dataPath, k, *classes)
	if err != nil {
		return err
	}
	logger.Info("loaded data", "path", *dataPath, "samples", data.X.Rows(), "features", data.X.Cols())

	cfg := regression.Config{
		LearningRate: *lr,
		Epochs:       *epochs,
		BatchSize:    *batch,
		Seed:         *seed,
		Optimizer:    *optimizer,
		Momentum:     *momentum,
	}
	m, err := newModel(k, data, cfg, regression.WithLogger(logger))
	if err != nil {
		return err
	}

	if *batch > 0 {
		err = m.TrainBatch()
	} else {
		err = m.Train()
	}
	if err != nil {
		return err
	}

	if err := m.Save(*out); err != nil {
		return err
	}
	logger.Info("saved model", "dir", *out)
	fmt.Fprintf(stdout, "loss %s\n", formatFloat(m.Loss()))
	return nil
}

func newModel(kind regression.Kind, data *dataset, cfg regression.Config, opts ...regression.Option) (*regression.Model, error) {
	switch kind {
	case regression.KindLinear:
		return regression.NewLinear(data.X, data.Y, cfg, opts...)
	case regression.KindLogistic:
		return regression.NewLogistic(data.X, data.Y, cfg, opts...)
	case regression.KindSoftmax:
		return regression.NewSoftmax(data.X, data.Y, cfg, opts...)
	default:
		return nil, fmt.Errorf("unknown model kind %q", kind)
	}
}

func eval(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	modelDir := fs.String("model", "model", "Directory of a saved model")
	dataPath := fs.String("data", "", "CSV file with features and a target column (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" {
		return fmt.Errorf("eval: -data is required")
	}

	m, err := regression.Load(*modelDir)
	if err != nil {
		return err
	}
	data, err := loadCSV(*dataPath, m.Kind(), m.Bias().Cols())
	if err != nil {
		return err
	}
	loss, err := m.Evaluate(data.X, data.Y)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "loss %s\n", formatFloat(loss))
	return nil
}

func predict(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	modelDir := fs.String("model", "model", "Directory of a saved model")
	dataPath := fs.String("data", "", "CSV file of feature rows (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" {
		return fmt.Errorf("predict: -data is required")
	}

	m, err := regression.Load(*modelDir)
	if err != nil {
		return err
	}
	x, err := loadFeatures(*dataPath)
	if err != nil {
		return err
	}
	pred, err := m.Predict(x)
	if err != nil {
		return err
	}

	for i := range pred.Rows() {
		row := pred.Row(i)
		fields := make([]string, len(row))
		for j, v := range row {
			fields[j] = formatFloat(v)
		}
		fmt.Fprintln(stdout, strings.Join(fields, ","))
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
