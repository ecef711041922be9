package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/phish-sieve/internal/cli"
	"github.com/Veraticus/phish-sieve/internal/config"
	"github.com/Veraticus/phish-sieve/internal/detector"
	"github.com/Veraticus/phish-sieve/internal/features"
	"github.com/Veraticus/phish-sieve/internal/forest"
	"github.com/Veraticus/phish-sieve/internal/model"
	"github.com/Veraticus/phish-sieve/internal/session"
	"github.com/Veraticus/phish-sieve/internal/storage"
	"github.com/Veraticus/phish-sieve/internal/training"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train the classifier and start an interactive session",
		Long: `Trains the classifier on the labeled dataset, reports evaluation
metrics, then classifies messages interactively. Every prediction is
appended to the detection log; answering 'n' to the correctness prompt
records a labeled correction.`,
		RunE: runDetector,
	}

	cmd.Flags().String("dataset", "", "labeled dataset CSV (columns: text, label)")
	_ = viper.BindPFlag("dataset.path", cmd.Flags().Lookup("dataset"))

	return cmd
}

func runDetector(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, cli.FormatTitle("Phishing Email Detector"))

	datasetPath := config.ExpandPath(viper.GetString("dataset.path"))
	raw, err := training.LoadCSV(datasetPath)
	if err != nil {
		return err
	}

	trees := viper.GetInt("training.trees")
	bar := progressbar.NewOptions(trees,
		progressbar.OptionSetDescription("Growing trees"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	pipeline := training.New(training.Config{
		Vectorizer: features.Config{
			MaxFeatures: viper.GetInt("training.max_features"),
			NGramMin:    1,
			NGramMax:    2,
		},
		Forest: forest.Config{
			Trees:    trees,
			MaxDepth: viper.GetInt("training.max_depth"),
			Progress: func() { _ = bar.Add(1) },
		},
		TestFraction: viper.GetFloat64("training.test_fraction"),
		Seed:         viper.GetInt64("training.seed"),
		MinExamples:  viper.GetInt("dataset.min_examples"),
	})

	trained, eval, err := pipeline.Run(raw)
	if err != nil {
		// Dataset validation failures are fatal: no partial model serves.
		return fmt.Errorf("training failed: %w", err)
	}

	fmt.Fprintln(out, cli.FormatTitle("Model Evaluation"))
	if eval == nil {
		fmt.Fprintln(out, cli.FormatWarning("Evaluation skipped: not enough test samples"))
	} else {
		fmt.Fprintln(out, renderEvaluation(eval))
	}

	analyzer, err := detector.New(trained, detector.Config{
		MaxInputLen: viper.GetInt("detector.max_input_length"),
	})
	if err != nil {
		return err
	}

	dbPath := config.ExpandPath(viper.GetString("database.path"))
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return err
	}

	fmt.Fprintln(out, cli.FormatTitle("Interactive Mode"))

	// The session owns the store from here and releases it on every exit
	// path, including interrupt.
	sess := session.New(analyzer, store, cmd.InOrStdin(), out, session.Config{
		MinInputLen: viper.GetInt("session.min_input_length"),
	})
	if err := sess.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("All results saved to %s", dbPath)))
	return nil
}

// renderEvaluation formats per-label metrics in classification-report
// style.
func renderEvaluation(eval *training.Evaluation) string {
	labels := make([]model.Label, 0, len(eval.PerLabel))
	for label := range eval.PerLabel {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %9s %9s %9s %9s\n", "", "precision", "recall", "f1-score", "support")
	for _, label := range labels {
		m := eval.PerLabel[label]
		fmt.Fprintf(&b, "%-12s %9.2f %9.2f %9.2f %9d\n", label, m.Precision, m.Recall, m.F1, m.Support)
	}
	fmt.Fprintf(&b, "%-12s %9s %9s %9.2f %9d\n", "accuracy", "", "", eval.Accuracy, eval.Total)
	return b.String()
}
