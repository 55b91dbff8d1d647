// Package library persists per-book reading positions in a single JSON
// document keyed by file path.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const stateFileName = "library.json"

// Book is one tracked book. Path is the map key in State, so it is not
// repeated here.
type Book struct {
	Title  string `json:"title"`
	Page   int    `json:"page"`
	Total  int    `json:"total,omitempty"`
	Status string `json:"status,omitempty"`
}

// Percent returns reading progress in [0,100]. A zero page count means
// the book was never readable; report 0 rather than dividing by it.
func (b *Book) Percent() float64 {
	if b.Total == 0 {
		return 0
	}
	pct := float64(b.Page) / float64(b.Total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// State is the persisted document. An empty ActiveBook means no book is
// selected; a JSON null in an existing document loads as the same.
type State struct {
	ActiveBook string           `json:"active_book,omitempty"`
	Books      map[string]*Book `json:"library"`
}

// Store manages the persisted library state.
type Store struct {
	path  string
	state State
	mu    sync.RWMutex
}

// Open creates or loads the store from XDG_STATE_HOME/chaptermate/.
// Missing or unparseable storage yields the empty default, never an
// error; the next successful save recovers.
func Open() (*Store, error) {
	dir := stateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	s := &Store{path: filepath.Join(dir, stateFileName)}
	s.state.Books = make(map[string]*Book)

	data, err := os.ReadFile(s.path)
	if err == nil {
		var loaded State
		if json.Unmarshal(data, &loaded) == nil && loaded.Books != nil {
			s.state = loaded
		}
	}
	// Drop an active pointer whose record is gone.
	if s.state.ActiveBook != "" {
		if _, ok := s.state.Books[s.state.ActiveBook]; !ok {
			s.state.ActiveBook = ""
		}
	}
	return s, nil
}

// stateDir returns XDG_STATE_HOME/chaptermate or ~/.local/state/chaptermate
func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "chaptermate")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "chaptermate")
}

// Upsert creates or replaces the record for path and persists.
func (s *Store) Upsert(path string, book *Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Books[path] = book
	return s.save()
}

// SetActive points the session at a known book and persists.
func (s *Store) SetActive(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Books[path]; !ok {
		return fmt.Errorf("no book in library for %s", path)
	}
	s.state.ActiveBook = path
	return s.save()
}

// ActiveBook returns the active book's path and record, if any.
func (s *Store) ActiveBook() (string, *Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.ActiveBook == "" {
		return "", nil, false
	}
	b, ok := s.state.Books[s.state.ActiveBook]
	if !ok {
		return "", nil, false
	}
	copied := *b
	return s.state.ActiveBook, &copied, true
}

// Book returns the record for path, if known.
func (s *Store) Book(path string) (*Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.state.Books[path]
	if !ok {
		return nil, false
	}
	copied := *b
	return &copied, true
}

// Entry pairs a book with its path for listings.
type Entry struct {
	Path string
	Book Book
}

// Books returns all records sorted by path.
func (s *Store) Books() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.state.Books))
	for path, b := range s.state.Books {
		out = append(out, Entry{Path: path, Book: *b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// AdvancePage moves the book's offset by delta, clamped to
// [0, Total] (or just >= 0 when the page count is unknown), and
// persists.
func (s *Store) AdvancePage(path string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.state.Books[path]
	if !ok {
		return fmt.Errorf("no book in library for %s", path)
	}
	b.Page += delta
	if b.Page < 0 {
		b.Page = 0
	}
	if b.Total > 0 && b.Page > b.Total {
		b.Page = b.Total
	}
	return s.save()
}

// SetTotal refreshes a book's page count and persists. The offset is
// re-clamped in case the file shrank.
func (s *Store) SetTotal(path string, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.state.Books[path]
	if !ok {
		return fmt.Errorf("no book in library for %s", path)
	}
	b.Total = total
	if total > 0 && b.Page > total {
		b.Page = total
	}
	return s.save()
}

// ResetAll clears in-memory state and deletes the persisted document.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{Books: make(map[string]*Book)}
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Path returns the location of the persisted document.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(&s.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
