package preference

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"resumeassist/internal/config"
)

// Backend persists string preference values by key
type Backend interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Path() string
	Close() error
}

// Open returns the backend selected by configuration
func Open(cfg config.PreferencesConfig) (Backend, error) {
	switch cfg.Backend {
	case config.PreferenceBackendSQLite:
		return OpenSQLite(cfg.Path)
	case config.PreferenceBackendFile, "":
		return NewFileBackend(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown preferences backend: %s", cfg.Backend)
	}
}

// FileBackend stores preferences as a JSON object of strings
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend creates a backend writing to path. The file is created on
// the first Set.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file location
func (b *FileBackend) Path() string {
	return b.path
}

// Get returns the value stored under key
func (b *FileBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.read()
	if err != nil {
		return "", false, err
	}
	value, found := values[key]
	return value, found, nil
}

// Set stores value under key, replacing the file atomically
func (b *FileBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.read()
	if err != nil {
		// unreadable content is replaced rather than blocking every write
		values = map[string]string{}
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0750); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp preferences file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("replace preferences file: %w", err)
	}
	return nil
}

// Close is a no-op for files
func (b *FileBackend) Close() error {
	return nil
}

func (b *FileBackend) read() (map[string]string, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode preferences %s: %w", b.path, err)
	}
	return values, nil
}
