package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/covscan/covscan/internal/config"
	"github.com/covscan/covscan/internal/coverage"
	"github.com/covscan/covscan/internal/errors"
	"github.com/covscan/covscan/internal/logging"
	"github.com/covscan/covscan/internal/registry"
	"github.com/covscan/covscan/internal/report"
	"github.com/covscan/covscan/internal/source"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"c"},
	Short:   "Run one coverage batch over a message file",
	Long: `Build the template registry from the template directory, evaluate every
message in the batch against its sender's templates, and write the coverage
summary plus the uncovered export.

Examples:
  covscan check -t ./templates -m messages.csv
  covscan check -t ./templates -m messages.csv --workers 4
  covscan check -t ./templates -m messages.csv --summary out/summary.txt`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	bindSourceFlags(checkCmd, true)
	checkCmd.Flags().IntP("workers", "w", 0, "evaluation worker count (0 = auto)")
	checkCmd.Flags().String("summary", "", "coverage summary output path")
	checkCmd.Flags().String("uncovered", "", "uncovered export output path")
	viper.BindPFlag("evaluation.workers", checkCmd.Flags().Lookup("workers"))
	viper.BindPFlag("output.summary_file", checkCmd.Flags().Lookup("summary"))
	viper.BindPFlag("output.uncovered_file", checkCmd.Flags().Lookup("uncovered"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Templates.Dir == "" {
		return fmt.Errorf("no template directory configured (use --templates)")
	}
	if cfg.Messages.File == "" {
		return fmt.Errorf("no message file configured (use --messages)")
	}

	log := newLogger(cfg)
	ctx := context.Background()

	result, err := runBatch(ctx, cfg, log)
	if err != nil {
		return err
	}

	if err := report.WriteSummary(os.Stdout, result.Summaries); err != nil {
		return err
	}
	fmt.Printf("\nSummary written to %s\n", cfg.Output.SummaryFile)
	fmt.Printf("Uncovered export written to %s (%d records)\n",
		cfg.Output.UncoveredFile, len(result.Uncovered))

	if result.Absorbed > 0 {
		fmt.Printf("Absorbed %d non-fatal failures (see log)\n", result.Absorbed)
	}

	return nil
}

// batchResult is the outcome of one complete coverage run.
type batchResult struct {
	Summaries []coverage.Summary
	Uncovered []int
	Absorbed  int
}

// runBatch executes one closed-batch coverage run end to end: registry
// build, message load, parallel evaluation, aggregation, report files.
// Shared by check and watch.
func runBatch(ctx context.Context, cfg *config.Config, log logging.Logger) (*batchResult, error) {
	collector := errors.NewErrorCollector()

	sets, err := registry.LoadDir(ctx, cfg.Templates.Dir, log)
	if err != nil {
		return nil, err
	}
	reg := registry.Build(ctx, sets, log, collector)

	batch, err := source.LoadCSV(cfg.Messages.File)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "message batch loaded",
		"file", cfg.Messages.File,
		"records", batch.Len(),
	)

	matcher := coverage.NewMatcher(reg)
	results := coverage.EvaluateBatch(ctx, batch.Records, matcher, coverage.EvalOptions{
		Workers:    cfg.Evaluation.Workers,
		Logger:     log,
		Collector:  collector,
		OnProgress: progressPrinter(batch.Len()),
	})

	summaries, uncovered := coverage.Aggregate(batch.Records, results)

	if err := report.WriteSummaryFile(cfg.Output.SummaryFile, summaries); err != nil {
		return nil, err
	}
	if err := report.WriteUncoveredFile(cfg.Output.UncoveredFile, batch, uncovered); err != nil {
		return nil, err
	}

	return &batchResult{
		Summaries: summaries,
		Uncovered: uncovered,
		Absorbed:  collector.Count(),
	}, nil
}

// progressPrinter reports evaluation progress to stderr at 10% steps. The
// callback runs on worker goroutines, so the last-printed step is guarded.
func progressPrinter(total int) func(done, total int) {
	if total == 0 {
		return nil
	}

	var mu sync.Mutex
	lastStep := -1

	return func(done, total int) {
		step := done * 10 / total
		mu.Lock()
		defer mu.Unlock()
		if step <= lastStep {
			return
		}
		lastStep = step
		fmt.Fprintf(os.Stderr, "Checked %d/%d messages (%d%%)\n", done, total, step*10)
	}
}

// newLogger builds the configured logger.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}
