package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quantbay/brokerchat/internal/llm"
	"github.com/quantbay/brokerchat/internal/news"
	"github.com/quantbay/brokerchat/models"
)

// handleResearch runs the single-shot research pipeline: extract a company
// reference from the turn, search recent news, then summarize the articles
// grounded strictly in their text. The flow ends this turn no matter what.
func (o *Orchestrator) handleResearch(ctx context.Context, s *Session, text string) string {
	s.ClearFlow()

	details, err := o.llm.ExtractCompanyDetails(ctx, text)
	if err != nil {
		o.log.Warn("company extraction failed, searching by raw text", "error", err)
		details = llm.CompanyDetails{}
	}

	symbol := derefTrim(details.CompanySymbol)
	name := derefTrim(details.CompanyName)
	query := deriveSearchQuery(text, symbol, name)

	articles, err := o.news.FetchArticles(ctx, query, o.articleLimit(), symbol, name)
	if err != nil {
		var apiErr *news.APIError
		if errors.As(err, &apiErr) {
			o.log.Error("news fetch failed", "query", query, "error", err)
			return fmt.Sprintf("Sorry, I couldn't load news right now: %s", apiErr.Message)
		}
		o.log.Error("news fetch failed", "query", query, "error", err)
		return fmt.Sprintf("Sorry, I couldn't load news right now: %v", err)
	}
	if len(articles) == 0 {
		return fmt.Sprintf("I couldn't find any recent news for %q. Try another symbol or topic.", query)
	}

	summary, err := o.llm.SummarizeArticles(ctx, articles, query)
	if err != nil {
		o.log.Error("article summarization failed", "query", query, "error", err)
		return fmt.Sprintf("I found articles but couldn't summarize them right now: %v", err)
	}

	return summary + "\n\n" + formatSources(articles)
}

// deriveSearchQuery prefers the extracted symbol, then the company name,
// then the raw user text, then a generic market query. Symbol and name
// queries are shaped for news search relevance.
func deriveSearchQuery(text, symbol, name string) string {
	if symbol != "" {
		return symbol + " stock news"
	}
	if name != "" {
		return name + " stock news"
	}
	if t := strings.TrimSpace(text); t != "" {
		return t
	}
	return "market news"
}

// formatSources renders a numbered, de-duplicated source list. Articles are
// keyed by URL when present, otherwise by title plus source.
func formatSources(articles []models.Article) string {
	var sb strings.Builder
	sb.WriteString("**Sources:**\n")

	seen := make(map[string]bool)
	n := 0
	for _, a := range articles {
		key := a.URL
		if key == "" {
			key = a.Title + "|" + a.Source
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		n++

		title := a.Title
		if title == "" {
			title = "Untitled"
		}
		if a.URL != "" {
			title = fmt.Sprintf("[%s](%s)", title, a.URL)
		}
		source := a.Source
		if source == "" {
			source = "Unknown source"
		}
		fmt.Fprintf(&sb, "%d. %s — %s (%s)\n", n, title, source, publishedLabel(a.PublishedAt))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func publishedLabel(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown date"
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

func derefTrim(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
