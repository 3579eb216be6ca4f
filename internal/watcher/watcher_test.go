package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateSourceFilter(t *testing.T) {
	assert.True(t, TemplateSourceFilter("templates/hdfc_bank.txt"))
	assert.True(t, TemplateSourceFilter("templates/axis.yaml"))
	assert.True(t, TemplateSourceFilter("templates/sbi.YML"))
	assert.True(t, TemplateSourceFilter("templates/icici.csv"))
	assert.False(t, TemplateSourceFilter("templates/readme.md"))
	assert.False(t, TemplateSourceFilter("templates"))
}

func TestPathFilter(t *testing.T) {
	filter := PathFilter("./data/messages.csv")
	assert.True(t, filter("data/messages.csv"))
	assert.False(t, filter("data/other.csv"))
}

func TestNoHiddenFilter(t *testing.T) {
	assert.True(t, NoHiddenFilter("templates/hdfc.txt"))
	assert.False(t, NoHiddenFilter(".git/config"))
	assert.False(t, NoHiddenFilter("templates/.hdfc.txt.swp"))
}

func TestValidatePath(t *testing.T) {
	_, err := validatePath("../outside")
	assert.Error(t, err)

	clean, err := validatePath("./templates/")
	require.NoError(t, err)
	assert.Equal(t, "templates", clean)
}

func TestDebouncerGroupsEvents(t *testing.T) {
	d := &Debouncer{
		delay:   20 * time.Millisecond,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make([]ChangeEvent, 0),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.start(ctx)

	// Rapid events for two paths, with a duplicate that must be deduped.
	d.events <- ChangeEvent{Type: EventTypeModified, Path: "a.txt"}
	d.events <- ChangeEvent{Type: EventTypeModified, Path: "b.txt"}
	d.events <- ChangeEvent{Type: EventTypeModified, Path: "a.txt"}

	select {
	case events := <-d.output:
		assert.Len(t, events, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never flushed")
	}
}

func TestFileWatcherDeliversChanges(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(TemplateSourceFilter)

	var mu sync.Mutex
	var seen []ChangeEvent
	delivered := make(chan struct{}, 1)
	fw.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		seen = append(seen, events...)
		mu.Unlock()
		select {
		case delivered <- struct{}{}:
		default:
		}
		return nil
	})

	require.NoError(t, fw.AddRecursive(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	// Give the watcher goroutines a moment before generating events.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hdfc_bank.txt"), []byte("Your OTP is <code>.\n"), 0o644))
	// Filtered out: wrong extension.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.md"), []byte("x"), 0o644))

	select {
	case <-delivered:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never delivered the change")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for _, event := range seen {
		assert.Equal(t, "hdfc_bank.txt", filepath.Base(event.Path))
	}
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
}
