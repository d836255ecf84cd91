// Package preference persists the single UI preference the client keeps:
// whether dark mode is on.
package preference

import (
	"context"
	"strconv"
	"sync"

	"resumeassist/internal/errors"
)

// DarkModeKey is the storage key of the dark mode flag
const DarkModeKey = "darkMode"

// Store holds the dark mode flag in memory and keeps it in sync with a Backend
type Store struct {
	backend Backend
	logger  *errors.Logger

	mu       sync.Mutex
	darkMode bool
	subs     map[int]func(bool)
	nextID   int
}

// NewStore loads the flag from backend. Missing or unparsable values read as false.
func NewStore(ctx context.Context, backend Backend, logger *errors.Logger) *Store {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	s := &Store{
		backend: backend,
		logger:  logger,
		subs:    make(map[int]func(bool)),
	}
	s.darkMode = s.load(ctx)
	return s
}

// DarkMode returns the current value
func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

// Toggle flips the flag and persists it before notifying subscribers. When
// persisting fails the in-memory value is unchanged and the error returned.
func (s *Store) Toggle(ctx context.Context) (bool, error) {
	s.mu.Lock()
	next := !s.darkMode
	if err := s.backend.Set(ctx, DarkModeKey, strconv.FormatBool(next)); err != nil {
		current := s.darkMode
		s.mu.Unlock()
		appErr := errors.NewIOError(errors.ErrCodePreferenceStore, "Failed to save preference", err).
			WithContext("path", s.backend.Path())
		s.logger.LogError(appErr, "Preference toggle failed")
		return current, appErr
	}
	s.darkMode = next
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next, nil
}

// Reload re-reads storage and notifies subscribers when the value changed
func (s *Store) Reload(ctx context.Context) bool {
	value := s.load(ctx)

	s.mu.Lock()
	if value == s.darkMode {
		s.mu.Unlock()
		return false
	}
	s.darkMode = value
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.logger.Debug("Preference changed on disk", "key", DarkModeKey, "value", value)
	for _, fn := range subs {
		fn(value)
	}
	return true
}

// Subscribe registers fn for value changes and returns a func removing it
func (s *Store) Subscribe(fn func(darkMode bool)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Path returns where the preference is stored
func (s *Store) Path() string {
	return s.backend.Path()
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) load(ctx context.Context) bool {
	raw, found, err := s.backend.Get(ctx, DarkModeKey)
	if err != nil {
		s.logger.Warn("Failed to read preference, using default", "key", DarkModeKey, "error", err)
		return false
	}
	if !found {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

func (s *Store) subscribersLocked() []func(bool) {
	subs := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}
