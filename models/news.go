package models

// Article is a normalized news article from the news provider. PublishedAt
// keeps the provider's raw timestamp string; formatting handles the fallback.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}
