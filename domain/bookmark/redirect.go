package bookmark

import (
	"net/url"
	"strings"

	"huffduff-video/domain/media"
)

// Defaults for the bookmarking service
const (
	DefaultBaseURL          = "https://huffduffer.com"
	DefaultDescriptionLimit = 1500
	Ellipsis                = "..."
)

// RedirectTarget holds the values sent to the bookmarking service's add page
type RedirectTarget struct {
	BaseURL     string // Bookmarking service base, e.g. https://huffduffer.com
	URL         string // Public URL of the stored audio
	Title       string
	Description string // Already truncated
	Tags        string // Comma-joined categories
}

// Builder assembles redirect targets for one bookmarking service
type Builder struct {
	baseURL          string
	descriptionLimit int
}

// NewBuilder creates a Builder; zero values fall back to the defaults
func NewBuilder(baseURL string, descriptionLimit int) *Builder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if descriptionLimit <= 0 {
		descriptionLimit = DefaultDescriptionLimit
	}
	return &Builder{
		baseURL:          strings.TrimRight(baseURL, "/"),
		descriptionLimit: descriptionLimit,
	}
}

// Build creates the redirect target for the resolved media stored at publicURL
func (b *Builder) Build(info *media.Info, publicURL string) RedirectTarget {
	return RedirectTarget{
		BaseURL:     b.baseURL,
		URL:         publicURL,
		Title:       info.Title,
		Description: TruncateDescription(info.Description, b.descriptionLimit),
		Tags:        strings.Join(info.Categories, ","),
	}
}

// TruncateDescription cuts s to limit characters and appends an ellipsis when
// anything was removed. Characters are counted as runes.
func TruncateDescription(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + Ellipsis
}

// AddURL returns the add-bookmark URL with every value percent-encoded.
// Parameters are always written in the order url, title, description, tags.
func (t RedirectTarget) AddURL() string {
	params := []struct{ key, value string }{
		{"bookmark[url]", t.URL},
		{"bookmark[title]", t.Title},
		{"bookmark[description]", t.Description},
		{"bookmark[tags]", t.Tags},
	}

	var b strings.Builder
	b.WriteString(t.BaseURL)
	b.WriteString("/add?")
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(escapeValue(p.value))
	}
	return b.String()
}

// escapeValue percent-encodes a query value, spaces included
func escapeValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
