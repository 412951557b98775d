package notes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripHTML(t *testing.T) {
	raw := `<html><head><title>Ignored</title><style>body{color:red}</style></head>
<body><script>alert("no")</script><h1>The   Title</h1><p>First <a href="/x">linked</a> paragraph.</p></body></html>`

	text := StripHTML(raw)
	assert.Equal(t, "The Title First linked paragraph.", text)
}

func TestStripHTMLNestedSkippedTags(t *testing.T) {
	raw := `<p>before</p><svg><text>vector label</text></svg><p>after</p>`
	assert.Equal(t, "before after", StripHTML(raw))
}

func TestFetchArticleText(t *testing.T) {
	article := "<html><body><article><p>" + strings.Repeat("Useful sentence about the topic. ", 20) + "</p></article></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "studykit-core/1.0", r.UserAgent())
		w.Write([]byte(article))
	}))
	defer srv.Close()

	text, err := FetchArticleText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Useful sentence about the topic.")
}

func TestFetchArticleTextTooShort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>tiny</p></body></html>"))
	}))
	defer srv.Close()

	_, err := FetchArticleText(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrArticleTooShort)
}

func TestFetchArticleTextHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := FetchArticleText(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
