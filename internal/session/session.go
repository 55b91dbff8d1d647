// Package session orchestrates reading: it pulls the active book's
// position from the library, reads the next page window, summarizes it,
// and writes the new position back.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/chaptermate/chaptermate/internal/document"
	"github.com/chaptermate/chaptermate/internal/library"
	"github.com/chaptermate/chaptermate/internal/summarizer"
)

// Phase is the session's state-machine position. Presentation layers
// query it to disable controls while a summary is in flight.
type Phase int

const (
	Idle Phase = iota // no active book
	Reading
	Summarizing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Reading:
		return "reading"
	case Summarizing:
		return "summarizing"
	}
	return "unknown"
}

var (
	// ErrBusy rejects position changes while a summary is in flight.
	ErrBusy = errors.New("a summary is in progress")
	// ErrNoActiveBook rejects operations that need a selected book.
	ErrNoActiveBook = errors.New("no active book (use new-book or resume)")
)

// Session drives one reader's progress through the active book.
type Session struct {
	store      *library.Store
	summarizer summarizer.Summarizer
	windowSize int
	timeout    time.Duration

	mu     sync.Mutex
	phase  Phase
	cancel context.CancelFunc
}

// New builds a session over the given store and summarizer. The phase
// starts at Reading when a book is already active.
func New(store *library.Store, summ summarizer.Summarizer, windowSize int, timeout time.Duration) *Session {
	s := &Session{
		store:      store,
		summarizer: summ,
		windowSize: windowSize,
		timeout:    timeout,
		phase:      Idle,
	}
	if _, _, ok := store.ActiveBook(); ok {
		s.phase = Reading
	}
	return s
}

// Phase returns the current state-machine position.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// WindowSize returns the number of pages read per advance.
func (s *Session) WindowSize() int {
	return s.windowSize
}

// ActiveBook returns the active book's path and record, if any.
func (s *Session) ActiveBook() (string, *library.Book, bool) {
	return s.store.ActiveBook()
}

// Percent returns the active book's progress, 0 when idle or when the
// page count is unknown.
func (s *Session) Percent() float64 {
	_, book, ok := s.store.ActiveBook()
	if !ok {
		return 0
	}
	return book.Percent()
}

// LoadBook registers path at the given start offset, makes it active,
// and enters Reading. Opening the file just to count pages surfaces an
// unreadable file before any record is written.
func (s *Session) LoadBook(path string, startPage int) error {
	if startPage < 0 {
		return fmt.Errorf("start page must not be negative")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	doc, err := document.OpenFile(abs)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	total := doc.PageCount()
	doc.Close()

	if startPage > total {
		startPage = total
	}
	book := &library.Book{
		Title:  filepath.Base(abs),
		Page:   startPage,
		Total:  total,
		Status: "reading",
	}
	if err := s.store.Upsert(abs, book); err != nil {
		log.Printf("failed to persist library state: %v", err)
	}
	if err := s.store.SetActive(abs); err != nil {
		return err
	}

	s.mu.Lock()
	s.phase = Reading
	s.mu.Unlock()
	return nil
}

// Resume makes an already-known book active and enters Reading.
func (s *Session) Resume(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := s.store.SetActive(abs); err != nil {
		return err
	}
	s.mu.Lock()
	s.phase = Reading
	s.mu.Unlock()
	return nil
}

// ReadWindow reads the next unread window of the active book. The page
// count in the record is refreshed from the file on every read.
func (s *Session) ReadWindow() (document.Window, error) {
	path, book, ok := s.store.ActiveBook()
	if !ok {
		return document.Window{}, ErrNoActiveBook
	}

	w, err := document.ReadFileWindow(path, book.Page, s.windowSize)
	if err != nil && !errors.Is(err, document.ErrNoText) {
		return w, err
	}
	if w.TotalPages != book.Total {
		if serr := s.store.SetTotal(path, w.TotalPages); serr != nil {
			log.Printf("failed to persist library state: %v", serr)
		}
	}
	return w, err
}

// Summarize runs the configured strategy over text. The session holds
// the Summarizing phase for the duration; a second call, or an Advance,
// is rejected with ErrBusy until it returns. Reset cancels it.
func (s *Session) Summarize(ctx context.Context, text string) (*summarizer.Summary, error) {
	s.mu.Lock()
	switch s.phase {
	case Summarizing:
		s.mu.Unlock()
		return nil, ErrBusy
	case Idle:
		s.mu.Unlock()
		return nil, ErrNoActiveBook
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	s.phase = Summarizing
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		cancel()
		s.cancel = nil
		if s.phase == Summarizing {
			s.phase = Reading
		}
		s.mu.Unlock()
	}()

	return s.summarizer.Summarize(ctx, text)
}

// Refresh reads the current window and summarizes it in one blocking
// call. The summary is nil when the window had nothing to summarize
// (book finished).
func (s *Session) Refresh(ctx context.Context) (document.Window, *summarizer.Summary, error) {
	w, err := s.ReadWindow()
	if err != nil {
		return w, nil, err
	}
	if w.AtEnd && w.Text == "" {
		return w, nil, nil
	}
	sum, err := s.Summarize(ctx, w.Text)
	if err != nil {
		return w, nil, err
	}
	return w, sum, nil
}

// Advance moves the active book forward one window and persists.
// Rejected while a summary is in flight.
func (s *Session) Advance() error {
	return s.move(s.windowSize)
}

// Retreat moves back one window, clamped at the first page.
func (s *Session) Retreat() error {
	return s.move(-s.windowSize)
}

func (s *Session) move(delta int) error {
	s.mu.Lock()
	switch s.phase {
	case Summarizing:
		s.mu.Unlock()
		return ErrBusy
	case Idle:
		s.mu.Unlock()
		return ErrNoActiveBook
	}
	s.mu.Unlock()

	path, _, ok := s.store.ActiveBook()
	if !ok {
		return ErrNoActiveBook
	}
	if err := s.store.AdvancePage(path, delta); err != nil {
		// Position already moved in memory; losing one save is
		// non-fatal, the next successful save recovers.
		log.Printf("failed to persist library state: %v", err)
	}
	return nil
}

// Reset cancels any in-flight summary, wipes all persisted and
// in-memory state, and returns to Idle.
func (s *Session) Reset() error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.phase = Idle
	s.mu.Unlock()
	return s.store.ResetAll()
}
