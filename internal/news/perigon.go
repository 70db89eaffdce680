// Package news implements the news-search collaborator against the Perigon
// articles API, with best-effort page scraping to fill in missing article
// text before summarization.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/quantbay/brokerchat/config"
	"github.com/quantbay/brokerchat/internal/cache"
	"github.com/quantbay/brokerchat/models"
)

// APIError is the distinguished news failure type: missing credentials or a
// failed provider request.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func errorf(format string, args ...interface{}) *APIError {
	return &APIError{Message: fmt.Sprintf(format, args...)}
}

type Provider interface {
	// FetchArticles returns up to limit recent articles for the query.
	// symbol and name narrow the search when known; either may be empty.
	FetchArticles(ctx context.Context, query string, limit int, symbol, name string) ([]models.Article, error)
}

type Client struct {
	http       *resty.Client
	cache      *cache.Manager
	apiURL     string
	apiKey     string
	recentDays int
}

func NewClient(cfg *config.Config) *Client {
	http := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2)

	return &Client{
		http:       http,
		cache:      cache.New(filepath.Join(cfg.CacheDir, "news"), 30*time.Minute, cfg.CacheEnabled),
		apiURL:     cfg.PerigonAPIURL,
		apiKey:     cfg.PerigonAPIKey,
		recentDays: cfg.NewsRecentDays,
	}
}

type perigonSource struct {
	Domain string `json:"domain"`
	Name   string `json:"name"`
}

type perigonArticle struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Content     string        `json:"content"`
	URL         string        `json:"url"`
	PubDate     string        `json:"pubDate"`
	Source      perigonSource `json:"source"`
}

type perigonResponse struct {
	Articles []perigonArticle `json:"articles"`
	Data     []perigonArticle `json:"data"`
}

func (c *Client) FetchArticles(ctx context.Context, query string, limit int, symbol, name string) ([]models.Article, error) {
	if c.apiKey == "" {
		return nil, errorf("news API key is not configured (set PERIGON_API_KEY)")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errorf("provide at least one keyword or ticker to search for")
	}
	if limit <= 0 {
		limit = 5
	}

	cacheKey := map[string]interface{}{"q": query, "symbol": symbol, "name": name, "limit": limit}
	var cached []models.Article
	if c.cache.Get("perigon", "articles", cacheKey, &cached) {
		return cached, nil
	}

	today := time.Now().UTC()
	params := map[string]string{
		"apiKey":      c.apiKey,
		"size":        fmt.Sprintf("%d", min(limit, 20)),
		"sortBy":      "date",
		"sourceGroup": "top25finance",
		"categories":  "Business,Finance",
		"language":    "en",
		"showReprints": "false",
		"startDate":   today.AddDate(0, 0, -c.recentDays).Format("2006-01-02"),
		"endDate":     today.Format("2006-01-02"),
	}
	switch {
	case symbol != "":
		params["companySymbol"] = symbol
	case name != "":
		params["companyName"] = name
	default:
		params["q"] = query
	}

	resp, err := c.http.R().SetContext(ctx).
		SetQueryParams(params).
		Get(c.apiURL)
	if err != nil {
		return nil, errorf("news API request failed: %v", err)
	}
	if resp.IsError() {
		return nil, errorf("news API request failed: %d - %s", resp.StatusCode(), resp.String())
	}

	var payload perigonResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, errorf("unexpected news payload: %v", err)
	}

	raw := payload.Articles
	if len(raw) == 0 {
		raw = payload.Data
	}
	if len(raw) > limit {
		raw = raw[:limit]
	}

	articles := make([]models.Article, 0, len(raw))
	for _, a := range raw {
		articles = append(articles, models.Article{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			Source:      sourceLabel(a.Source),
			PublishedAt: a.PubDate,
		})
	}

	c.enrichExcerpts(ctx, articles)

	c.cache.Set("perigon", "articles", cacheKey, articles)
	return articles, nil
}

func sourceLabel(src perigonSource) string {
	if src.Name != "" {
		return src.Name
	}
	return strings.TrimPrefix(src.Domain, "www.")
}
