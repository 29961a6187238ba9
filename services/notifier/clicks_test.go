package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClickRouter(t *testing.T) {
	router := NewClickRouter()

	_, ok := router.Resolve("missing")
	assert.False(t, ok)

	router.Register("n1", "https://a.com/p")
	url, ok := router.Resolve("n1")
	assert.True(t, ok)
	assert.Equal(t, "https://a.com/p", url)

	// A click consumes the link
	_, ok = router.Resolve("n1")
	assert.False(t, ok)
}

func TestClickRouterReplacesLink(t *testing.T) {
	router := NewClickRouter()

	// Re-registering the same id keeps a single entry with the newest
	// link
	router.Register("n1", "https://a.com/old")
	router.Register("n1", "https://a.com/new")

	url, ok := router.Resolve("n1")
	assert.True(t, ok)
	assert.Equal(t, "https://a.com/new", url)
}
