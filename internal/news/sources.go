package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	newsAPIBaseURL = "https://newsapi.org/v2/everything"
	finnhubBaseURL = "https://finnhub.io/api/v1/company-news"

	articleWindow  = 7 * 24 * time.Hour
	perSourceLimit = 10
)

// Source fetches raw news items for one ticker from one external API.
type Source interface {
	Name() string
	Fetch(ctx context.Context, ticker string) ([]rawArticle, error)
}

// rawArticle is a source-neutral item before relevance/sentiment analysis.
type rawArticle struct {
	Title       string
	Body        string
	URL         string
	PublishedAt time.Time
}

// NewsAPISource queries newsapi.org's everything endpoint.
type NewsAPISource struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewNewsAPISource creates a NewsAPI client. baseURL overrides are used in
// tests; empty selects the production endpoint.
func NewNewsAPISource(apiKey, baseURL string, httpClient *http.Client) *NewsAPISource {
	if baseURL == "" {
		baseURL = newsAPIBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &NewsAPISource{apiKey: apiKey, baseURL: baseURL, http: httpClient}
}

func (s *NewsAPISource) Name() string { return "newsapi" }

func (s *NewsAPISource) Fetch(ctx context.Context, ticker string) ([]rawArticle, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s OR %s", ticker, CompanyName(ticker)))
	params.Set("apiKey", s.apiKey)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprintf("%d", perSourceLimit))
	params.Set("from", time.Now().Add(-articleWindow).Format(time.RFC3339))

	var payload struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := s.get(ctx, s.baseURL+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	items := make([]rawArticle, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		published, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			published = time.Now().UTC()
		}
		items = append(items, rawArticle{
			Title:       a.Title,
			Body:        a.Description,
			URL:         a.URL,
			PublishedAt: published,
		})
	}
	return items, nil
}

func (s *NewsAPISource) get(ctx context.Context, fullURL string, out any) error {
	return fetchJSON(ctx, s.http, s.Name(), fullURL, out)
}

// FinnhubSource queries finnhub.io's company-news endpoint.
type FinnhubSource struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewFinnhubSource creates a Finnhub client.
func NewFinnhubSource(apiKey, baseURL string, httpClient *http.Client) *FinnhubSource {
	if baseURL == "" {
		baseURL = finnhubBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &FinnhubSource{apiKey: apiKey, baseURL: baseURL, http: httpClient}
}

func (s *FinnhubSource) Name() string { return "finnhub" }

func (s *FinnhubSource) Fetch(ctx context.Context, ticker string) ([]rawArticle, error) {
	now := time.Now()
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(ticker))
	params.Set("from", now.Add(-articleWindow).Format("2006-01-02"))
	params.Set("to", now.Format("2006-01-02"))
	params.Set("token", s.apiKey)

	var payload []struct {
		Headline string `json:"headline"`
		Summary  string `json:"summary"`
		URL      string `json:"url"`
		Datetime int64  `json:"datetime"`
	}
	if err := fetchJSON(ctx, s.http, s.Name(), s.baseURL+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	if len(payload) > perSourceLimit {
		payload = payload[:perSourceLimit]
	}
	items := make([]rawArticle, 0, len(payload))
	for _, a := range payload {
		items = append(items, rawArticle{
			Title:       a.Headline,
			Body:        a.Summary,
			URL:         a.URL,
			PublishedAt: time.Unix(a.Datetime, 0).UTC(),
		})
	}
	return items, nil
}

func fetchJSON(ctx context.Context, client *http.Client, source, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("news: %s: create request: %w", source, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("news: %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("news: %s: status %d", source, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return fmt.Errorf("news: %s: read response: %w", source, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("news: %s: decode response: %w", source, err)
	}
	return nil
}
