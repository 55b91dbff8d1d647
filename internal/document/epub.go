package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// EPUBFormat implements Format for EPUB files. EPUBs have no fixed
// pages, so each spine item stands in for one page.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

func (f *EPUBFormat) Open(path string) (Document, error) {
	rc, err := epub.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	if len(rc.Rootfiles) == 0 {
		rc.Close()
		return nil, fmt.Errorf("no rootfiles found in epub")
	}
	return &epubDocument{rc: rc, book: rc.Rootfiles[0]}, nil
}

type epubDocument struct {
	rc   *epub.ReadCloser
	book *epub.Rootfile
}

func (d *epubDocument) PageCount() int {
	return len(d.book.Spine.Itemrefs)
}

func (d *epubDocument) PageText(i int) (string, error) {
	if i < 0 || i >= len(d.book.Spine.Itemrefs) {
		return "", fmt.Errorf("spine item %d out of range", i)
	}
	ref := d.book.Spine.Itemrefs[i]
	if ref.Item == nil {
		return "", fmt.Errorf("spine item %d has no manifest entry", i)
	}
	r, err := ref.Item.Open()
	if err != nil {
		return "", fmt.Errorf("spine item %d: %w", i, err)
	}
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return "", fmt.Errorf("spine item %d: %w", i, err)
	}
	return extractTextFromHTML(string(data)), nil
}

func (d *epubDocument) Close() error {
	d.rc.Close()
	return nil
}

func extractTextFromHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				out.WriteString(t)
				out.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out.String()
}
