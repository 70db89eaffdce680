package news

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quantbay/brokerchat/models"
)

const (
	maxExcerptLen   = 600
	maxScrapedPages = 3
)

// enrichExcerpts scrapes a short body excerpt for articles that arrived
// without description or content, so the summarizer has text to ground in.
// Scraping is best-effort; failures leave the article as-is.
func (c *Client) enrichExcerpts(ctx context.Context, articles []models.Article) {
	scraped := 0
	for i := range articles {
		if articles[i].Description != "" || articles[i].Content != "" {
			continue
		}
		if articles[i].URL == "" || scraped >= maxScrapedPages {
			continue
		}
		scraped++

		excerpt, err := c.scrapeExcerpt(ctx, articles[i].URL)
		if err != nil || excerpt == "" {
			continue
		}
		articles[i].Content = excerpt
	}
}

func (c *Client) scrapeExcerpt(ctx context.Context, url string) (string, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", errorf("page fetch failed: %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	doc.Find("article p, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) < 40 {
			return true // skip nav fragments and bylines
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(text)
		return sb.Len() < maxExcerptLen
	})

	excerpt := sb.String()
	if len(excerpt) > maxExcerptLen {
		excerpt = excerpt[:maxExcerptLen] + "…"
	}
	return excerpt, nil
}
