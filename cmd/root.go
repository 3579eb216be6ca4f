// Package cmd provides the command-line interface for covscan with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--templates, --messages, etc.) - highest priority
//	2. COVSCAN_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (COVSCAN_TEMPLATES_DIR, etc.)
//	4. Configuration files (.covscan.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "covscan",
	Short: "Template coverage checker for sender-tagged messages",
	Long: `Covscan checks a batch of sender-tagged text messages against per-sender
structural templates and reports which messages are covered.

Templates are plain text with <placeholder> spans for variable content.
A message is covered when its whole normalized shape matches at least one
template registered for its sender.

Quick Start:
  covscan check -t ./templates -m messages.csv   Run one coverage batch
  covscan list -t ./templates                    List senders and template counts
  covscan validate -t ./templates                Compile-check all templates
  covscan watch -t ./templates -m messages.csv   Re-run on source changes`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .covscan.yml, can also use COVSCAN_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// bindSourceFlags registers the shared template/message source flags on a
// command and binds them into viper so flags, env vars, and config files
// resolve through one path.
func bindSourceFlags(cmd *cobra.Command, withMessages bool) {
	cmd.Flags().StringP("templates", "t", "", "directory of per-sender template files")
	if withMessages {
		cmd.Flags().StringP("messages", "m", "", "CSV message batch to check")
	}

	bindings := map[string]string{
		"templates": "templates.dir",
		"messages":  "messages.file",
	}
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := bindings[f.Name]; ok {
			viper.BindPFlag(key, f)
		}
	})
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. COVSCAN_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .covscan.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("COVSCAN_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".covscan")
	}

	// Enable automatic environment variable binding with COVSCAN_ prefix
	// Examples: COVSCAN_TEMPLATES_DIR, COVSCAN_EVALUATION_WORKERS
	viper.SetEnvPrefix("COVSCAN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// If the file doesn't exist Viper falls back to defaults without
	// failing; a missing config file is not an error.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
