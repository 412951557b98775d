package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPurgeHTTPCacheWithoutRedis(t *testing.T) {
	deleted, err := PurgeHTTPCache(context.Background(), nil)
	assert.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestShouldSkipCachePath(t *testing.T) {
	patterns := []string{"/api/v1/ping", "/api/v1/tasks/*"}

	assert.True(t, shouldSkipCachePath("/api/v1/ping", patterns))
	assert.True(t, shouldSkipCachePath("/api/v1/tasks/abc", patterns))
	assert.False(t, shouldSkipCachePath("/api/v1/notes", patterns))
	assert.False(t, shouldSkipCachePath("/api/v1/ping/extra", patterns))
}
