package advisor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSummarizePrompt(t *testing.T) {
	prompt := buildSummarizePrompt([]ArticleInput{
		{Title: "Apple beats earnings estimates", Source: "Reuters", Summary: "Strong iPhone quarter."},
		{Title: "Fed holds rates steady", Source: "Bloomberg"},
	})

	assert.Contains(t, prompt, "financial news analyst")
	assert.Contains(t, prompt, "1. Apple beats earnings estimates")
	assert.Contains(t, prompt, "Source: Reuters")
	assert.Contains(t, prompt, "Strong iPhone quarter.")
	assert.Contains(t, prompt, "2. Fed holds rates steady")
	// Missing summaries get the placeholder.
	assert.Contains(t, prompt, "Summary: No summary available")
}

func TestBuildExplainSentimentPrompt(t *testing.T) {
	prompt := buildExplainSentimentPrompt(ArticleInput{
		Ticker:      "TSLA",
		Title:       "Tesla recalls vehicles",
		Summary:     "Software defect prompts recall.",
		Sentiment:   "negative",
		PublishedAt: "2026-08-01T00:00:00Z",
	})

	assert.Contains(t, prompt, "'negative' sentiment")
	assert.Contains(t, prompt, "Tesla recalls vehicles")
	assert.Contains(t, prompt, "TSLA")
	assert.Contains(t, prompt, "Software defect prompts recall.")
}

func TestWealthVisorPromptPersona(t *testing.T) {
	assert.True(t, strings.Contains(wealthVisorPrompt, "WealthVisor"))
	assert.Contains(t, wealthVisorPrompt, "not a licensed financial advisor")
}
