package summarizer

import (
	"context"
	"strings"
)

const (
	minSentenceLen = 25
	thinThreshold  = 50
)

// Extractive selects sentences from the source text instead of
// generating new text. Pure and synchronous.
type Extractive struct{}

// Summarize flattens newlines, splits on sentence terminators, and
// keeps candidates longer than minSentenceLen characters. Up to
// thinThreshold candidates are returned as-is; past that, every second
// candidate is kept, preserving order. The thinning policy is carried
// over unchanged from the original tool and is not a quality ranking.
func (e *Extractive) Summarize(_ context.Context, text string) (*Summary, error) {
	flat := strings.ReplaceAll(text, "\n", " ")
	segments := strings.Split(flat, ". ")

	var points []string
	for _, seg := range segments {
		if len(seg) > minSentenceLen {
			points = append(points, strings.TrimSpace(seg)+".")
		}
	}

	if len(points) > thinThreshold {
		thinned := make([]string, 0, (len(points)+1)/2)
		for i := 0; i < len(points); i += 2 {
			thinned = append(thinned, points[i])
		}
		points = thinned
	}

	return &Summary{Points: points}, nil
}
