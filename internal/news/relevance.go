package news

import "strings"

// Relevance scoring weights. An article must reach relevanceThreshold to be
// attributed to a ticker; the keyword component is capped so generic market
// coverage cannot qualify on jargon alone.
const (
	tickerMentionScore = 10
	companyNameScore   = 8
	keywordScore       = 2
	keywordScoreCap    = 6
	industryTermScore  = 3
	competitorScore    = 2
	relevanceThreshold = 5
)

// stockKeywords indicate stock-specific content regardless of company.
var stockKeywords = []string{
	"earnings", "revenue", "profit", "loss", "stock", "shares",
	"dividend", "ipo", "merger", "acquisition", "partnership",
	"quarterly", "annual", "guidance", "forecast", "analyst",
	"price target", "upgrade", "downgrade", "rating", "trading",
	"market cap", "valuation", "investor", "shareholder",
}

// companyVariations maps tickers to common name spellings.
var companyVariations = map[string][]string{
	"AAPL":  {"Apple", "Apple Inc", "Apple Computer"},
	"MSFT":  {"Microsoft", "Microsoft Corporation"},
	"GOOGL": {"Google", "Alphabet", "Google Inc"},
	"GOOG":  {"Google", "Alphabet", "Google Inc"},
	"AMZN":  {"Amazon", "Amazon.com", "Amazon Inc"},
	"TSLA":  {"Tesla", "Tesla Motors", "Tesla Inc"},
	"META":  {"Meta", "Facebook", "Meta Platforms"},
	"NVDA":  {"NVIDIA", "Nvidia Corporation"},
	"NFLX":  {"Netflix", "Netflix Inc"},
	"AMD":   {"Advanced Micro Devices", "AMD Inc"},
	"INTC":  {"Intel", "Intel Corporation"},
	"CRM":   {"Salesforce", "Salesforce.com"},
	"ORCL":  {"Oracle", "Oracle Corporation"},
	"IBM":   {"IBM", "International Business Machines"},
	"ADBE":  {"Adobe", "Adobe Inc", "Adobe Systems"},
	"PYPL":  {"PayPal", "PayPal Holdings"},
	"UBER":  {"Uber", "Uber Technologies"},
	"COIN":  {"Coinbase", "Coinbase Global"},
	"HOOD":  {"Robinhood", "Robinhood Markets"},
	"SPOT":  {"Spotify", "Spotify Technology"},
	"SHOP":  {"Shopify", "Shopify Inc"},
	"SNOW":  {"Snowflake", "Snowflake Inc"},
	"PLTR":  {"Palantir", "Palantir Technologies"},
	"ABNB":  {"Airbnb", "Airbnb Inc"},
}

// industryTerms maps tickers to sector vocabulary that signals relevance.
var industryTerms = map[string][]string{
	"AAPL":  {"smartphone", "iphone", "ipad", "mac", "ios", "app store"},
	"MSFT":  {"software", "cloud", "azure", "office", "windows", "enterprise"},
	"GOOGL": {"search", "advertising", "youtube", "android", "cloud"},
	"AMZN":  {"e-commerce", "aws", "retail", "logistics", "prime", "marketplace"},
	"TSLA":  {"electric vehicle", "ev", "autonomous", "battery", "solar", "energy"},
	"META":  {"social media", "facebook", "instagram", "whatsapp", "vr", "metaverse"},
	"NVDA":  {"gpu", "ai", "gaming", "data center", "cuda", "machine learning"},
	"NFLX":  {"streaming", "entertainment", "content", "subscription", "movies"},
	"AMD":   {"processor", "cpu", "gpu", "semiconductor", "gaming", "data center"},
	"INTC":  {"processor", "cpu", "semiconductor", "manufacturing", "foundry"},
	"COIN":  {"cryptocurrency", "bitcoin", "crypto", "trading", "exchange"},
	"HOOD":  {"trading", "brokerage", "commission", "retail investor"},
	"SPOT":  {"music", "streaming", "podcast", "subscription"},
	"SHOP":  {"e-commerce", "online store", "retail", "merchant"},
}

// competitors maps tickers to rival companies whose coverage may matter.
var competitors = map[string][]string{
	"AAPL":  {"Samsung", "Google", "Microsoft", "Amazon"},
	"MSFT":  {"Google", "Amazon", "Oracle", "Salesforce"},
	"GOOGL": {"Microsoft", "Amazon", "Apple", "Meta"},
	"AMZN":  {"Walmart", "Target", "eBay", "Shopify"},
	"TSLA":  {"Ford", "GM", "BMW", "Mercedes", "Toyota"},
	"META":  {"Google", "TikTok", "Snapchat", "Twitter"},
	"NVDA":  {"AMD", "Intel", "Qualcomm"},
	"NFLX":  {"Disney", "Hulu", "Amazon Prime", "HBO"},
	"AMD":   {"Intel", "NVIDIA", "Qualcomm"},
	"INTC":  {"AMD", "NVIDIA", "Qualcomm", "TSMC"},
	"COIN":  {"Binance", "Kraken", "Gemini"},
}

// CompanyName returns the primary company name for a ticker, falling back
// to the ticker itself.
func CompanyName(ticker string) string {
	if names, ok := companyVariations[strings.ToUpper(ticker)]; ok && len(names) > 0 {
		return names[0]
	}
	return ticker
}

// IsRelevant reports whether text is actually about the ticker, using a
// weighted score over direct mentions, company names, financial keywords,
// industry terms, and competitor mentions.
func IsRelevant(ticker, text string) bool {
	return RelevanceScore(ticker, text) >= relevanceThreshold
}

// RelevanceScore computes the weighted relevance of text to a ticker.
func RelevanceScore(ticker, text string) int {
	textLower := strings.ToLower(text)
	upper := strings.ToUpper(ticker)
	score := 0

	if strings.Contains(textLower, strings.ToLower(ticker)) {
		score += tickerMentionScore
	}

	for _, name := range companyVariations[upper] {
		if strings.Contains(textLower, strings.ToLower(name)) {
			score += companyNameScore
			break
		}
	}

	keywordHits := 0
	for _, kw := range stockKeywords {
		if strings.Contains(textLower, kw) {
			keywordHits++
		}
	}
	score += min(keywordHits*keywordScore, keywordScoreCap)

	for _, term := range industryTerms[upper] {
		if strings.Contains(textLower, strings.ToLower(term)) {
			score += industryTermScore
			break
		}
	}

	for _, rival := range competitors[upper] {
		if strings.Contains(textLower, strings.ToLower(rival)) {
			score += competitorScore
			break
		}
	}

	return score
}
