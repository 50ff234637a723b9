package news

import (
	"regexp"
	"strings"
	"time"
)

// Article is one analyzed news item for a tracked ticker.
type Article struct {
	Ticker      string    `json:"ticker"`
	Title       string    `json:"title"`
	Sentiment   string    `json:"sentiment"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Summarize produces a brief summary: the first two sentences, capped at
// 250 characters.
func Summarize(text string) string {
	if strings.TrimSpace(text) == "" {
		return "No summary available"
	}

	sentences := sentenceSplit.Split(text, -1)
	kept := make([]string, 0, 2)
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		kept = append(kept, s)
		if len(kept) == 2 {
			break
		}
	}

	summary := strings.Join(kept, ". ")
	if summary != "" && !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	if len(summary) > 250 {
		summary = summary[:250] + "..."
	}
	return summary
}
