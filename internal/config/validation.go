package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxWorkers bounds the evaluation pool so a typo in config cannot spawn
// thousands of goroutines.
const maxWorkers = 64

// validateConfig validates configuration values for correctness and basic
// path safety.
func validateConfig(config *Config) error {
	if config.Evaluation.Workers < 1 || config.Evaluation.Workers > maxWorkers {
		return fmt.Errorf("evaluation workers %d not in valid range 1-%d", config.Evaluation.Workers, maxWorkers)
	}

	if config.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}

	for name, path := range map[string]string{
		"templates.dir":         config.Templates.Dir,
		"messages.file":         config.Messages.File,
		"output.summary_file":   config.Output.SummaryFile,
		"output.uncovered_file": config.Output.UncoveredFile,
	} {
		if path == "" {
			continue // required-ness is checked per command
		}
		if err := validatePath(path); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, path, err)
		}
	}

	return nil
}

// validatePath validates a file path for basic safety.
func validatePath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal")
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character %s", char)
		}
	}

	return nil
}
