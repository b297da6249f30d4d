package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/a-s-adam/streamlink/internal/config"
	"github.com/a-s-adam/streamlink/internal/repository"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "test.db"),
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("InitDB error: %v", err)
	}
	return db
}

// fakeDispatcher records dispatched tasks instead of enqueueing them.
type fakeDispatcher struct {
	mu    sync.Mutex
	calls []dispatchedCall
}

type dispatchedCall struct {
	Task string
	Args json.RawMessage
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, task string, args interface{}) (string, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	d.mu.Lock()
	d.calls = append(d.calls, dispatchedCall{Task: task, Args: raw})
	d.mu.Unlock()
	return "fake-job-id", nil
}

func (d *fakeDispatcher) callsFor(task string) []dispatchedCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []dispatchedCall
	for _, c := range d.calls {
		if c.Task == task {
			out = append(out, c)
		}
	}
	return out
}

// fakeMetadata serves canned lookups keyed by title.
type fakeMetadata struct {
	byTitle map[string]*ItemMetadata
}

func (m *fakeMetadata) Lookup(ctx context.Context, title string, year int) (*ItemMetadata, error) {
	meta, ok := m.byTitle[title]
	if !ok {
		return nil, ErrNoResults
	}
	return meta, nil
}
