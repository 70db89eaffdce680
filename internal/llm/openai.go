package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"github.com/quantbay/brokerchat/config"
	"github.com/quantbay/brokerchat/models"
)

// OpenAIClient talks to any OpenAI-compatible chat endpoint. The base URL is
// configurable, so the same client reaches OpenAI, DeepSeek, or a local
// gateway.
type OpenAIClient struct {
	model *openai.ChatModel
}

func NewOpenAIClient(ctx context.Context, cfg *config.Config) (*OpenAIClient, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	temperature := float32(0)
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     cfg.OpenAIBaseURL,
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.OpenAIModel,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	return &OpenAIClient{model: chatModel}, nil
}

func (c *OpenAIClient) generate(ctx context.Context, system, user string) (string, error) {
	msg, err := c.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// stripFences removes a markdown code fence some providers wrap JSON in.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

func (c *OpenAIClient) ClassifyIntent(ctx context.Context, text string) (IntentResult, error) {
	content, err := c.generate(ctx, classifyPrompt, text)
	if err != nil {
		return IntentResult{}, fmt.Errorf("classify intent: %w", err)
	}

	var result IntentResult
	if err := json.Unmarshal([]byte(stripFences(content)), &result); err != nil {
		return IntentResult{Intent: IntentUnknown, Confidence: 0}, nil
	}
	if result.Intent == "" {
		result.Intent = IntentUnknown
	}
	return result, nil
}

func (c *OpenAIClient) Parse(ctx context.Context, text string) (TradeParams, error) {
	content, err := c.generate(ctx, parsePrompt, text)
	if err != nil {
		return TradeParams{}, fmt.Errorf("parse trade params: %w", err)
	}

	var params TradeParams
	if err := json.Unmarshal([]byte(stripFences(content)), &params); err != nil {
		// Fall back to all-nil fields on invalid provider JSON.
		return TradeParams{}, nil
	}
	params.Normalize()
	return params, nil
}

func (c *OpenAIClient) ExtractCompanyDetails(ctx context.Context, text string) (CompanyDetails, error) {
	content, err := c.generate(ctx, extractCompanyPrompt, text)
	if err != nil {
		return CompanyDetails{}, fmt.Errorf("extract company details: %w", err)
	}

	var details CompanyDetails
	if err := json.Unmarshal([]byte(stripFences(content)), &details); err != nil {
		return CompanyDetails{}, nil
	}
	return details, nil
}

func (c *OpenAIClient) SummarizeArticles(ctx context.Context, articles []models.Article, queryHint string) (string, error) {
	if len(articles) == 0 {
		return "There is nothing to summarize yet.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\n\n", queryHint)
	for i, article := range articles {
		fmt.Fprintf(&sb, "Article %d\nTitle: %s\nSource: %s\nDate: %s\n",
			i+1, article.Title, article.Source, article.PublishedAt)
		if article.Description != "" {
			fmt.Fprintf(&sb, "Description: %s\n", article.Description)
		}
		if article.Content != "" {
			fmt.Fprintf(&sb, "Text: %s\n", article.Content)
		}
		sb.WriteString("\n")
	}

	summary, err := c.generate(ctx, summarizePrompt, sb.String())
	if err != nil {
		return "", fmt.Errorf("summarize articles: %w", err)
	}
	return strings.TrimSpace(summary), nil
}
