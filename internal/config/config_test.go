package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "coverage_summary.txt", cfg.Output.SummaryFile)
	assert.Equal(t, "uncovered_messages.csv", cfg.Output.UncoveredFile)
	assert.GreaterOrEqual(t, cfg.Evaluation.Workers, 1)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadFromViper(t *testing.T) {
	resetViper(t)
	viper.Set("templates.dir", "./templates")
	viper.Set("messages.file", "./messages.csv")
	viper.Set("evaluation.workers", 4)
	viper.Set("output.summary_file", "out/summary.txt")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./templates", cfg.Templates.Dir)
	assert.Equal(t, "./messages.csv", cfg.Messages.File)
	assert.Equal(t, 4, cfg.Evaluation.Workers)
	assert.Equal(t, "out/summary.txt", cfg.Output.SummaryFile)
}

func TestLoadRejectsBadWorkers(t *testing.T) {
	tests := []struct {
		name    string
		workers int
	}{
		{"negative", -1},
		{"too many", maxWorkers + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			viper.Set("evaluation.workers", tt.workers)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "workers")
		})
	}
}

func TestLoadRejectsUnsafePaths(t *testing.T) {
	tests := []struct {
		name string
		key  string
		path string
	}{
		{"traversal", "templates.dir", "../../etc"},
		{"shell metacharacter", "messages.file", "messages.csv; rm -rf /"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			viper.Set(tt.key, tt.path)

			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, validatePath("./templates"))
	assert.NoError(t, validatePath("out/summary.txt"))
	assert.Error(t, validatePath("../outside"))
	assert.Error(t, validatePath("file`whoami`.csv"))
}
