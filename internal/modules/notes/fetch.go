package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	fetchTimeout     = 30 * time.Second
	maxArticleBytes  = 4 << 20
	minArticleLength = 100
)

// ErrArticleTooShort is returned when a fetched page yields too little text
// to generate notes from.
var ErrArticleTooShort = errors.New("the content of the article is too short to generate notes from")

// FetchArticleText downloads a page and reduces it to plain text: script,
// style and image content is dropped, anchors keep their text only.
func FetchArticleText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("could not retrieve content from the provided URL: %w", err)
	}
	req.Header.Set("User-Agent", "studykit-core/1.0")

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not retrieve content from the provided URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("could not retrieve content from the provided URL: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleBytes))
	if err != nil {
		return "", fmt.Errorf("could not retrieve content from the provided URL: %w", err)
	}

	cleaned := StripHTML(string(body))
	if len(strings.TrimSpace(cleaned)) < minArticleLength {
		return "", ErrArticleTooShort
	}
	return cleaned, nil
}

// StripHTML extracts readable text from an HTML document.
func StripHTML(raw string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(raw))

	var (
		sb   strings.Builder
		skip int
	)
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return collapseWhitespace(sb.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(string(name)) {
				skip++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				sb.Write(tokenizer.Text())
				sb.WriteByte(' ')
			}
		}
	}
}

func isSkippedTag(name string) bool {
	switch name {
	case "script", "style", "noscript", "head", "iframe", "svg":
		return true
	default:
		return false
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
