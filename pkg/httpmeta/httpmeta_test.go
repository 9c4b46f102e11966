package httpmeta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	ctx := WithClientIP(context.Background(), "203.0.113.7")
	ctx = WithUserAgent(ctx, "test-agent/1.0")

	assert.Equal(t, "203.0.113.7", ClientIP(ctx))
	assert.Equal(t, "test-agent/1.0", UserAgent(ctx))
}

func TestEmptyContext(t *testing.T) {
	assert.Empty(t, ClientIP(context.Background()))
	assert.Empty(t, UserAgent(context.Background()))
}
