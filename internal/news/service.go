package news

import (
	"context"
	"sort"
	"strings"

	"github.com/stocklens/stocklens/pkg/logging"
)

const maxResults = 20

// Service fetches headlines for tickers, filters them for relevance, and
// scores sentiment. A source failing is logged and skipped; one flaky API
// must not blank the whole feed.
type Service struct {
	sources []Source
	logger  *logging.Logger
}

func NewService(sources []Source, logger *logging.Logger) *Service {
	return &Service{sources: sources, logger: logger}
}

// SourceNames reports the configured sources, for startup logging.
func (s *Service) SourceNames() []string {
	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	return names
}

// FetchForTickers pulls news for each ticker from every configured source,
// keeps relevant articles, and returns them newest-first capped at 20.
func (s *Service) FetchForTickers(ctx context.Context, tickers []string) ([]Article, error) {
	var articles []Article
	seen := make(map[string]bool)

	for _, ticker := range tickers {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if ticker == "" {
			continue
		}
		for _, src := range s.sources {
			items, err := src.Fetch(ctx, ticker)
			if err != nil {
				s.logger.Warn("news source fetch failed",
					"source", src.Name(), "ticker", ticker, "error", err)
				continue
			}
			for _, item := range items {
				if item.Title == "" || seen[item.URL] {
					continue
				}
				if !IsRelevant(ticker, item.Title+" "+item.Body) {
					continue
				}
				seen[item.URL] = true
				articles = append(articles, Article{
					Title:       item.Title,
					Summary:     Summarize(item.Body),
					URL:         item.URL,
					Source:      src.Name(),
					Ticker:      ticker,
					Sentiment:   ClassifySentiment(item.Title + " " + item.Body),
					PublishedAt: item.PublishedAt,
				})
			}
		}
	}

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if len(articles) > maxResults {
		articles = articles[:maxResults]
	}
	return articles, nil
}
