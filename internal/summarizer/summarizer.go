// Package summarizer reduces a window of book text to a short summary,
// either locally (extractive sentence filter) or via the Anthropic
// Messages API.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/chaptermate/chaptermate/internal/config"
)

// Summary is the result of summarizing one page window. Extractive
// summaries carry Points; delegated summaries carry Text.
type Summary struct {
	Points []string
	Text   string
}

// Render flattens a summary to display text, one bullet per line for
// extractive summaries.
func (s *Summary) Render() string {
	if s.Text != "" {
		return s.Text
	}
	var sb strings.Builder
	for _, p := range s.Points {
		sb.WriteString("• ")
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summarizer reduces text to a Summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*Summary, error)
}

// New creates a summarizer based on the configuration.
func New(cfg *config.Config) (Summarizer, error) {
	switch cfg.Summarizer.Type {
	case "extractive":
		return &Extractive{}, nil
	case "anthropic":
		return NewAnthropic(cfg.Summarizer.APIKey, cfg.Summarizer.Model, cfg.Summarizer.MaxTokens, cfg.Summarizer.Timeout()), nil
	default:
		return nil, fmt.Errorf("unsupported summarizer type %q (supported: extractive, anthropic)", cfg.Summarizer.Type)
	}
}
