package document

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeEPUB builds a minimal two-chapter EPUB on disk.
func writeEPUB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.epub")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	files := []struct{ name, body string }{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`},
		{"content.opf", `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="id" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:identifier id="id">test-book</dc:identifier>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`},
		{"ch1.xhtml", `<html><body><p>First chapter text.</p></body></html>`},
		{"ch2.xhtml", `<html><body><p>Second chapter text.</p></body></html>`},
	}
	for _, file := range files {
		w, err := zw.Create(file.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", file.name, err)
		}
		if _, err := w.Write([]byte(file.body)); err != nil {
			t.Fatalf("zip write %s: %v", file.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return path
}

func TestEPUBDocument(t *testing.T) {
	doc, err := OpenFile(writeEPUB(t))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	if n := doc.PageCount(); n != 2 {
		t.Errorf("PageCount = %d, want 2 spine items", n)
	}

	text, err := doc.PageText(0)
	if err != nil {
		t.Fatalf("PageText(0): %v", err)
	}
	if !strings.Contains(text, "First chapter text") {
		t.Errorf("PageText(0) = %q", text)
	}

	text, err = doc.PageText(1)
	if err != nil {
		t.Fatalf("PageText(1): %v", err)
	}
	if !strings.Contains(text, "Second chapter text") {
		t.Errorf("PageText(1) = %q", text)
	}

	if _, err := doc.PageText(2); err == nil {
		t.Error("expected error for out-of-range spine item")
	}

	if err := doc.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestEPUBFormatMetadata(t *testing.T) {
	f := &EPUBFormat{}
	if f.Name() != "EPUB" {
		t.Errorf("Name() = %q, want EPUB", f.Name())
	}
	if exts := f.Extensions(); len(exts) != 1 || exts[0] != ".epub" {
		t.Errorf("Extensions() = %v, want [.epub]", exts)
	}
}

func TestExtractTextFromHTML(t *testing.T) {
	got := extractTextFromHTML(`<html><body><h1>Title</h1><p>Some <b>bold</b> text.</p></body></html>`)
	for _, want := range []string{"Title", "Some", "bold", "text."} {
		if !strings.Contains(got, want) {
			t.Errorf("extractTextFromHTML missing %q: %q", want, got)
		}
	}
}
