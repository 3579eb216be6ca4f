package registry

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/covscan/covscan/internal/errors"
	"github.com/covscan/covscan/internal/logging"
	"github.com/covscan/covscan/internal/normalize"
)

// SenderSet is one sender's raw template collection as loaded from a single
// source file. The sender identity derives from the file base name:
// underscores become spaces, then the canonical sender transform.
type SenderSet struct {
	Sender    string // canonical sender key
	Path      string
	Templates []string
}

// Template source file extensions recognized by LoadDir.
var sourceExtensions = map[string]bool{
	".txt":  true,
	".yaml": true,
	".yml":  true,
	".csv":  true,
}

// IsTemplateSource reports whether path looks like a template source file.
func IsTemplateSource(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// SenderFromFile derives the canonical sender key from a template source
// file path.
func SenderFromFile(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return normalize.CanonicalSender(strings.ReplaceAll(base, "_", " "))
}

// LoadDir reads every template source file in dir, one sender per file.
// An unreadable directory is fatal; an unreadable or malformed individual
// file is logged and skipped so one bad sender file never blocks the rest
// of the registry.
func LoadDir(ctx context.Context, dir string, log logging.Logger) ([]SenderSet, error) {
	if log == nil {
		log = logging.Nop()
	}
	log = log.WithComponent("registry")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewSourceError(errors.ErrCodeTemplateSource,
			fmt.Sprintf("reading template directory %q", dir), err)
	}

	var sets []SenderSet
	for _, entry := range entries {
		if entry.IsDir() || !IsTemplateSource(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		templates, err := loadFile(path)
		if err != nil {
			log.Warn(ctx, err, "skipping unreadable template source", "path", path)
			continue
		}

		sets = append(sets, SenderSet{
			Sender:    SenderFromFile(path),
			Path:      path,
			Templates: templates,
		})
	}

	return sets, nil
}

// loadFile reads the raw template strings from a single source file.
func loadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".csv":
		return parseCSV(data)
	default:
		return parseLines(data), nil
	}
}

// parseLines reads one template per line, skipping blanks and '#' comments.
func parseLines(data []byte) []string {
	var templates []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		templates = append(templates, line)
	}
	return templates
}

// parseYAML accepts either a bare list of strings or a document with a
// top-level "templates" list.
func parseYAML(data []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc struct {
		Templates []string `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Templates, nil
}

// parseCSV reads templates from a "template" column when the first row is a
// header naming one, otherwise from the first column of every row.
func parseCSV(data []byte) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	column := 0
	start := 0
	for i, cell := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(cell), "template") {
			column = i
			start = 1
			break
		}
	}

	var templates []string
	for _, row := range rows[start:] {
		if column >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[column])
		if cell == "" {
			continue
		}
		templates = append(templates, cell)
	}
	return templates, nil
}
