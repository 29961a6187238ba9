package notifier

import "sync"

// ClickRouter maps notification ids to their product deep links. One
// registry serves every notification, so repeated triggers never pile
// up handlers; a click resolves its URL exactly once.
type ClickRouter struct {
	mu    sync.Mutex
	links map[string]string
}

// NewClickRouter creates an empty click router
func NewClickRouter() *ClickRouter {
	return &ClickRouter{
		links: make(map[string]string),
	}
}

// Register stores the deep link for a notification id, replacing any
// previous link under the same id
func (c *ClickRouter) Register(id, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links[id] = url
}

// Resolve returns the deep link for a clicked notification and clears
// it, mirroring the notification being dismissed on click
func (c *ClickRouter) Resolve(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	url, ok := c.links[id]
	if ok {
		delete(c.links, id)
	}
	return url, ok
}
