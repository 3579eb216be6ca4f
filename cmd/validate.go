package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/covscan/covscan/internal/config"
	"github.com/covscan/covscan/internal/registry"
	"github.com/covscan/covscan/internal/template"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Compile-check every template in a template directory",
	Long: `Compile every template in the template directory and report the ones
that fail, without running any matching.

A non-zero exit status means at least one template failed to compile.

Examples:
  covscan validate -t ./templates
  covscan validate -t ./templates --quiet`,
	RunE: runValidate,
}

var validateQuiet bool

func init() {
	rootCmd.AddCommand(validateCmd)

	bindSourceFlags(validateCmd, false)
	validateCmd.Flags().BoolVarP(&validateQuiet, "quiet", "q", false, "Only report failures")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Templates.Dir == "" {
		return fmt.Errorf("no template directory configured (use --templates)")
	}

	ctx := context.Background()
	log := newLogger(cfg)

	sets, err := registry.LoadDir(ctx, cfg.Templates.Dir, log)
	if err != nil {
		return err
	}

	total, failed := 0, 0
	for _, set := range sets {
		for _, raw := range set.Templates {
			total++
			if _, err := template.Compile(raw); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: %v\n", set.Path, err)
			} else if !validateQuiet {
				fmt.Printf("%s: ok: %q\n", set.Sender, raw)
			}
		}
	}

	fmt.Printf("Validated %d templates from %d senders: %d failed\n", total, len(sets), failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d templates failed to compile", failed, total)
	}
	return nil
}
