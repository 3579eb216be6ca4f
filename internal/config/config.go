// Package config provides configuration management for covscan using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the COVSCAN_ prefix, and validation. It manages the
// template-source and message-source locations, output paths, evaluation
// worker count, logging, and watch-mode options. No path is ever baked into
// the core packages; everything flows from here.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/covscan/covscan/internal/coverage"
)

type Config struct {
	Templates  TemplatesConfig  `yaml:"templates"`
	Messages   MessagesConfig   `yaml:"messages"`
	Output     OutputConfig     `yaml:"output"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Log        LogConfig        `yaml:"log"`
	Watch      WatchConfig      `yaml:"watch"`
}

type TemplatesConfig struct {
	// Dir holds one template source file per sender.
	Dir string `yaml:"dir"`
}

type MessagesConfig struct {
	// File is the CSV message batch.
	File string `yaml:"file"`
}

type OutputConfig struct {
	SummaryFile   string `yaml:"summary_file"`
	UncoveredFile string `yaml:"uncovered_file"`
}

type EvaluationConfig struct {
	Workers int `yaml:"workers"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle values set directly via viper (flag/env bindings).
	if viper.IsSet("templates.dir") {
		config.Templates.Dir = viper.GetString("templates.dir")
	}
	if viper.IsSet("messages.file") {
		config.Messages.File = viper.GetString("messages.file")
	}
	if viper.IsSet("output.summary_file") {
		config.Output.SummaryFile = viper.GetString("output.summary_file")
	}
	if viper.IsSet("output.uncovered_file") {
		config.Output.UncoveredFile = viper.GetString("output.uncovered_file")
	}
	if viper.IsSet("evaluation.workers") {
		config.Evaluation.Workers = viper.GetInt("evaluation.workers")
	}
	if viper.IsSet("log-level") {
		config.Log.Level = viper.GetString("log-level")
	}

	// Apply defaults for anything still unset.
	if config.Output.SummaryFile == "" {
		config.Output.SummaryFile = "coverage_summary.txt"
	}
	if config.Output.UncoveredFile == "" {
		config.Output.UncoveredFile = "uncovered_messages.csv"
	}
	if config.Evaluation.Workers == 0 {
		config.Evaluation.Workers = coverage.DefaultWorkers()
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = 300 * time.Millisecond
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
