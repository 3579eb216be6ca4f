package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/covscan/covscan/internal/config"
	"github.com/covscan/covscan/internal/errors"
	"github.com/covscan/covscan/internal/registry"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List senders and template counts in a template directory",
	Long: `List every sender found in the template directory with its compiled and
dropped template counts.

Examples:
  covscan list -t ./templates             # Table format
  covscan list -t ./templates -f json     # Output as JSON
  covscan list -t ./templates -f yaml     # Output as YAML`,
	RunE: runList,
}

var listFormat string

func init() {
	rootCmd.AddCommand(listCmd)

	bindSourceFlags(listCmd, false)
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format (table, json, yaml)")
}

// senderEntry is one row of list output.
type senderEntry struct {
	Sender    string `json:"sender" yaml:"sender"`
	Templates int    `json:"templates" yaml:"templates"`
	Dropped   int    `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Templates.Dir == "" {
		return fmt.Errorf("no template directory configured (use --templates)")
	}

	ctx := context.Background()
	log := newLogger(cfg)
	collector := errors.NewErrorCollector()

	sets, err := registry.LoadDir(ctx, cfg.Templates.Dir, log)
	if err != nil {
		return err
	}
	reg := registry.Build(ctx, sets, log, collector)

	dropped := make(map[string]int)
	for _, ce := range collector.ByType(errors.ErrorTypeCompile) {
		dropped[ce.Sender]++
	}

	entries := make([]senderEntry, 0, reg.SenderCount())
	for _, sender := range reg.Senders() {
		templates, _ := reg.Templates(sender)
		entries = append(entries, senderEntry{
			Sender:    sender,
			Templates: len(templates),
			Dropped:   dropped[sender],
		})
	}

	if len(entries) == 0 {
		fmt.Println("No template sources found.")
		return nil
	}

	switch strings.ToLower(listFormat) {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()
		return encoder.Encode(entries)
	case "table":
		return outputListTable(entries, reg.TemplateCount())
	default:
		return fmt.Errorf("unsupported format: %s", listFormat)
	}
}

func outputListTable(entries []senderEntry, total int) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "SENDER\tTEMPLATES\tDROPPED")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%d\t%d\n", entry.Sender, entry.Templates, entry.Dropped)
	}
	fmt.Fprintf(w, "\nTotal: %d senders, %d templates\n", len(entries), total)

	return nil
}
