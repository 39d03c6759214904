package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/KaramelBytes/zeroml/internal/artifact"
	"github.com/KaramelBytes/zeroml/internal/dataset"
	"github.com/KaramelBytes/zeroml/internal/pipeline"
	"github.com/KaramelBytes/zeroml/internal/prompt"
	"github.com/KaramelBytes/zeroml/internal/result"
	"github.com/spf13/cobra"
)

var (
	procModelName string
	procTask      string
	procOutDir    string
	procJSON      bool
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Ask for cleaning steps, a chart and a model script for a data file",
	Example: `  zeroml process houses.csv --task "predict price"
  zeroml process houses.csv --model-name "Random Forest Regression" --out-dir ./out
  zeroml process sales.tsv --json > result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVar(&procModelName, "model-name", "", "model to request (see `zeroml models`)")
	processCmd.Flags().StringVar(&procTask, "task", "", "description of the ML task")
	processCmd.Flags().StringVar(&procOutDir, "out-dir", "", "write cleaned_data.csv, model_info.json and model_script.py here")
	processCmd.Flags().BoolVar(&procJSON, "json", false, "print the full result as JSON")
}

func runProcess(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !dataset.AcceptedFile(path) {
		return fmt.Errorf("unsupported file type: %s (use .csv or .tsv)", path)
	}
	if procModelName != "" {
		if _, ok := prompt.LookupKind(procModelName); !ok {
			return fmt.Errorf("unknown model %q (run `zeroml models` to list choices)", procModelName)
		}
	}
	ds, err := dataset.ReadFile(path)
	if err != nil {
		return err
	}

	rt, model, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	sess := pipeline.NewSession(pipeline.New(rt, model, logger, nil))
	sess.Load(ds)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if _, err := sess.Process(ctx, pipeline.Options{Task: procTask, SelectedModel: procModelName}); err != nil {
		return fmt.Errorf("error processing data, please try again: %w", err)
	}
	state, _ := sess.State()
	agg := sess.Result()
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Batch %s: %d rows from %s\n", state, len(sess.Data()), path)

	out := cmd.OutOrStdout()
	if procJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(agg); err != nil {
			return err
		}
	} else {
		printSummary(out, agg)
	}

	if procOutDir != "" {
		paths, err := artifact.Write(procOutDir, agg)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", p)
		}
	}
	return nil
}

func printSummary(w io.Writer, agg *result.AggregateResult) {
	fmt.Fprintln(w, "Cleaning steps:")
	for i, s := range agg.Cleaning.Steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s)
	}
	fmt.Fprintf(w, "  cleaned rows: %d\n\n", len(agg.Cleaning.UpdatedData))

	if agg.Visualization.Chart != nil {
		c := agg.Visualization.Chart.Config()
		fmt.Fprintf(w, "Visualization: %s chart, %d labels, %d datasets\n\n", agg.Visualization.Kind(), len(c.Labels), len(c.Datasets))
	}

	m := agg.Model
	fmt.Fprintf(w, "Model: %s\n", m.Type)
	if len(m.Features) > 0 {
		fmt.Fprintf(w, "  features: %s\n", strings.Join(m.Features, ", "))
	}
	if m.Metrics != nil {
		if m.Metrics.Accuracy != nil {
			fmt.Fprintf(w, "  accuracy: %.4f\n", *m.Metrics.Accuracy)
		}
		if m.Metrics.R2Score != nil {
			fmt.Fprintf(w, "  r2_score: %.4f\n", *m.Metrics.R2Score)
		}
		if len(m.Metrics.CrossValidation) > 0 {
			fmt.Fprintf(w, "  cross_validation: %v\n", m.Metrics.CrossValidation)
		}
	}
	fmt.Fprintf(w, "  script: %d lines\n", strings.Count(m.Code, "\n")+1)
}
