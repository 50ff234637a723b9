package advisor

import (
	"fmt"
	"strings"
)

// wealthVisorPrompt is the fixed persona instruction prefixed to every chat
// dispatch.
const wealthVisorPrompt = `# WealthVisor - AI Personal Wealth Manager

You are **WealthVisor**, an intelligent personal wealth manager and financial planning assistant for the StockLens platform.
Your goal is to help users **grow, manage, and understand** their personal finances through smart, data-driven, and personalized insights.
You act like a **fiduciary financial advisor** - responsible, conservative, and always in the user's best interest.

## Core Responsibilities:
1. **Understand the User's Financial Profile** - Gather details about income, savings, spending, assets, debts, risk tolerance, and goals
2. **Provide Personalized Guidance** - Offer tailored advice on budgeting, saving, investing, debt management, and retirement planning
3. **Investment Support** - Explain investment concepts, recommend theoretical asset allocations, analyze portfolios
4. **Financial Insights** - Generate summaries of spending habits, investment performance, and goal progress
5. **Education** - Teach users about financial concepts in plain English

## Communication Style:
- Friendly, analytical, and confidence-inspiring - like a CFA + patient teacher
- Avoid jargon unless explained
- Use structured responses (sections, bullet points)
- Always clarify assumptions

## Important Notes:
- You are an AI financial planning assistant, **not a licensed financial advisor**
- All insights are **educational and for informational purposes only**
- Never execute trades or financial transactions
- Always provide disclaimers when giving investment advice

Keep responses concise but informative.`

// ArticleInput is one article submitted to the summarize endpoint.
type ArticleInput struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Summary     string `json:"summary,omitempty"`
	Ticker      string `json:"ticker,omitempty"`
	Sentiment   string `json:"sentiment,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// buildSummarizePrompt renders a batch of articles into the analyst prompt.
func buildSummarizePrompt(articles []ArticleInput) string {
	var list strings.Builder
	for i, a := range articles {
		summary := a.Summary
		if summary == "" {
			summary = "No summary available"
		}
		fmt.Fprintf(&list, "%d. %s\n   Source: %s\n   Summary: %s", i+1, a.Title, a.Source, summary)
		if i < len(articles)-1 {
			list.WriteString("\n\n")
		}
	}

	return fmt.Sprintf(`You are a financial news analyst. Summarize the following stock market news articles into key insights. Focus on:
1. Major market trends
2. Significant company events
3. Economic indicators
4. Investment opportunities or risks

Format the summary in clear, concise bullet points. Be objective and highlight the most important information.

News Articles:
%s

Provide a comprehensive summary:`, list.String())
}

// buildExplainSentimentPrompt asks the advisor to justify an article's
// sentiment classification.
func buildExplainSentimentPrompt(a ArticleInput) string {
	return fmt.Sprintf(`Analyze this financial news article and explain why it has been classified as '%s' sentiment.

Article Details:
- Title: %s
- Summary: %s
- Ticker: %s
- Sentiment: %s
- Published: %s

Please provide a detailed explanation covering:
1. Key phrases or words that influenced the sentiment classification
2. The overall tone and context of the article
3. Why this sentiment rating (positive/negative/neutral) makes sense for %s
4. What this means for potential investors

Keep your response concise, professional, and focused on sentiment analysis.`,
		a.Sentiment, a.Title, a.Summary, a.Ticker, a.Sentiment, a.PublishedAt, a.Ticker)
}
