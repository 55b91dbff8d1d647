package document

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeDoc serves canned page text. A nil entry fails extraction.
type fakeDoc struct {
	pages []string
	fail  map[int]bool
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) PageText(i int) (string, error) {
	if d.fail[i] {
		return "", fmt.Errorf("page %d: extraction failed", i)
	}
	return d.pages[i], nil
}

func (d *fakeDoc) Close() error { return nil }

func pages(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("page%d", i)
	}
	return out
}

func TestReadWindow(t *testing.T) {
	t.Run("full window", func(t *testing.T) {
		doc := &fakeDoc{pages: pages(20)}
		w, err := ReadWindow(doc, 0, 10)
		if err != nil {
			t.Fatalf("ReadWindow: %v", err)
		}
		if w.NextPage != 10 {
			t.Errorf("NextPage = %d, want 10", w.NextPage)
		}
		if w.AtEnd {
			t.Error("AtEnd = true, want false")
		}
		if w.TotalPages != 20 {
			t.Errorf("TotalPages = %d, want 20", w.TotalPages)
		}
		if !strings.Contains(w.Text, "page0") || !strings.Contains(w.Text, "page9") {
			t.Errorf("Text missing expected pages: %q", w.Text)
		}
		if strings.Contains(w.Text, "page10") {
			t.Errorf("Text includes page beyond window: %q", w.Text)
		}
	})

	t.Run("short final window", func(t *testing.T) {
		doc := &fakeDoc{pages: pages(13)}
		w, err := ReadWindow(doc, 10, 10)
		if err != nil {
			t.Fatalf("ReadWindow: %v", err)
		}
		if w.NextPage != 13 {
			t.Errorf("NextPage = %d, want 13", w.NextPage)
		}
		if !w.AtEnd {
			t.Error("AtEnd = false, want true")
		}
	})

	t.Run("start past end", func(t *testing.T) {
		doc := &fakeDoc{pages: pages(5)}
		w, err := ReadWindow(doc, 7, 10)
		if err != nil {
			t.Fatalf("ReadWindow: %v", err)
		}
		if w.Text != "" {
			t.Errorf("Text = %q, want empty", w.Text)
		}
		if w.NextPage != 7 {
			t.Errorf("NextPage = %d, want unchanged 7", w.NextPage)
		}
		if !w.AtEnd {
			t.Error("AtEnd = false, want true")
		}
		if w.TotalPages != 5 {
			t.Errorf("TotalPages = %d, want 5", w.TotalPages)
		}
	})

	t.Run("failed pages are skipped", func(t *testing.T) {
		doc := &fakeDoc{
			pages: pages(8),
			fail:  map[int]bool{3: true, 4: true},
		}
		w, err := ReadWindow(doc, 0, 6)
		if err != nil {
			t.Fatalf("ReadWindow: %v", err)
		}
		for _, want := range []string{"page0", "page1", "page2", "page5"} {
			if !strings.Contains(w.Text, want) {
				t.Errorf("Text missing %q: %q", want, w.Text)
			}
		}
		for _, skip := range []string{"page3", "page4"} {
			if strings.Contains(w.Text, skip) {
				t.Errorf("Text includes failed page %q: %q", skip, w.Text)
			}
		}
		// Position advances by window arithmetic, not by pages read.
		if w.NextPage != 6 {
			t.Errorf("NextPage = %d, want 6", w.NextPage)
		}
	})

	t.Run("no extractable text", func(t *testing.T) {
		doc := &fakeDoc{pages: []string{"  ", "\n", ""}}
		w, err := ReadWindow(doc, 0, 3)
		if !errors.Is(err, ErrNoText) {
			t.Fatalf("err = %v, want ErrNoText", err)
		}
		if w.NextPage != 0 {
			t.Errorf("NextPage = %d, want unchanged 0", w.NextPage)
		}
		if w.AtEnd {
			t.Error("AtEnd = true, want false")
		}
		if w.TotalPages != 3 {
			t.Errorf("TotalPages = %d, want 3", w.TotalPages)
		}
	})

	t.Run("advance reaches end in ceil(P/W) reads", func(t *testing.T) {
		doc := &fakeDoc{pages: pages(23)}
		start, reads := 0, 0
		for {
			w, err := ReadWindow(doc, start, 10)
			if err != nil {
				t.Fatalf("ReadWindow: %v", err)
			}
			reads++
			start = w.NextPage
			if w.AtEnd {
				break
			}
			if reads > 10 {
				t.Fatal("never reached end")
			}
		}
		if reads != 3 {
			t.Errorf("reads = %d, want 3", reads)
		}
		if start != 23 {
			t.Errorf("final NextPage = %d, want 23", start)
		}
	})
}

func TestOpenFileUnknownExtension(t *testing.T) {
	_, err := OpenFile("book.docx")
	if err == nil {
		t.Fatal("expected error for unknown extension")
	}
	if !strings.Contains(err.Error(), ".docx") {
		t.Errorf("error should name the extension: %v", err)
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	joined := strings.Join(formats, " ")
	if !strings.Contains(joined, ".pdf") {
		t.Errorf("missing pdf format: %v", formats)
	}
	if !strings.Contains(joined, ".epub") {
		t.Errorf("missing epub format: %v", formats)
	}
}
