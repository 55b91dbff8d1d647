package document

import (
	"errors"
	"log"
	"strings"
)

// ErrNoText reports a window with no extractable text, typically a
// scanned or image-only document. The Window returned alongside it
// still carries the true page count so callers can distinguish this
// from an unreadable file.
var ErrNoText = errors.New("no extractable text in page window")

// Window is the result of reading one run of pages. Ephemeral, never
// cached: produced fresh on every read.
type Window struct {
	Text       string
	NextPage   int
	AtEnd      bool
	TotalPages int
}

// ReadWindow extracts the text of up to windowSize pages starting at
// startPage. A page that fails to extract is logged and skipped; the
// window still advances by full window arithmetic, so NextPage is
// always min(startPage+windowSize, TotalPages) on success. When
// startPage is at or past the end, the window is empty with AtEnd set
// and NextPage unchanged.
func ReadWindow(doc Document, startPage, windowSize int) (Window, error) {
	total := doc.PageCount()
	if startPage >= total {
		return Window{NextPage: startPage, AtEnd: true, TotalPages: total}, nil
	}

	end := startPage + windowSize
	if end > total {
		end = total
	}

	var sb strings.Builder
	for i := startPage; i < end; i++ {
		text, err := doc.PageText(i)
		if err != nil {
			log.Printf("skipping unreadable page: %v", err)
			continue
		}
		sb.WriteString(text)
		sb.WriteString(" ")
	}

	w := Window{
		Text:       sb.String(),
		NextPage:   end,
		AtEnd:      end >= total,
		TotalPages: total,
	}

	if strings.TrimSpace(w.Text) == "" {
		// Scanned or image-only pages. Leave the position alone so the
		// caller can offer a different file instead of silently
		// advancing past content it never showed.
		w.NextPage = startPage
		w.AtEnd = false
		return w, ErrNoText
	}
	return w, nil
}

// ReadFileWindow opens path, reads one window, and closes the file.
func ReadFileWindow(path string, startPage, windowSize int) (Window, error) {
	doc, err := OpenFile(path)
	if err != nil {
		return Window{}, err
	}
	defer doc.Close()
	return ReadWindow(doc, startPage, windowSize)
}
