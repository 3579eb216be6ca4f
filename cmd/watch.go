package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/covscan/covscan/internal/config"
	"github.com/covscan/covscan/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Re-run the coverage batch when sources change",
	Long: `Watch the template directory and the message file and re-run the full
coverage batch whenever either changes. Every run is a complete closed-batch
evaluation; nothing is matched incrementally.

Examples:
  covscan watch -t ./templates -m messages.csv
  covscan watch -t ./templates -m messages.csv --verbose`,
	RunE: runWatchCommand,
}

var watchVerbose bool

func init() {
	rootCmd.AddCommand(watchCmd)

	bindSourceFlags(watchCmd, true)
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Verbose output")
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
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

	fileWatcher, err := watcher.NewFileWatcher(cfg.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.NoHiddenFilter)
	fileWatcher.AddFilter(anySourceFilter(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		if watchVerbose {
			fmt.Println("Source changes detected:")
			for _, event := range events {
				fmt.Printf("   %s: %s\n", event.Type, event.Path)
			}
		} else {
			fmt.Printf("%d source file(s) changed, re-running\n", len(events))
		}

		if _, err := runBatch(ctx, cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "Coverage run failed: %v\n", err)
			return err
		}
		fmt.Printf("Summary written to %s\n", cfg.Output.SummaryFile)
		return nil
	})

	fmt.Println("Setting up file watching...")
	if err := fileWatcher.AddRecursive(cfg.Templates.Dir); err != nil {
		return fmt.Errorf("failed to watch template directory: %w", err)
	}
	fmt.Printf("   - Watching: %s\n", cfg.Templates.Dir)
	if err := fileWatcher.AddPath(filepath.Dir(cfg.Messages.File)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to watch message file: %v\n", err)
	} else {
		fmt.Printf("   - Watching: %s\n", cfg.Messages.File)
	}

	fmt.Println("Performing initial run...")
	if _, err := runBatch(ctx, cfg, log); err != nil {
		fmt.Fprintf(os.Stderr, "Initial run failed: %v\n", err)
	} else {
		fmt.Printf("Summary written to %s\n", cfg.Output.SummaryFile)
	}

	fileWatcher.Start(ctx)

	fmt.Println("Watching for changes... (Press Ctrl+C to stop)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	fmt.Println("\nStopping file watcher...")
	cancel()

	return nil
}

// anySourceFilter keeps template source files plus the message file itself.
func anySourceFilter(cfg *config.Config) watcher.FileFilter {
	messageFilter := watcher.PathFilter(cfg.Messages.File)
	return func(path string) bool {
		return watcher.TemplateSourceFilter(path) || messageFilter(path)
	}
}
