package cache

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheService backs CacheService with memcached. Host block keys
// rely on memcached expiring them; nothing here extends or refreshes
// an entry.
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService creates a memcached-backed cache. The client
// connects lazily on first use.
func NewMemcacheService(serverAddr string) *MemcacheService {
	return &MemcacheService{
		client: memcache.New(serverAddr),
	}
}

// Get returns the value for key. A miss surfaces as an error.
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores value under key. Memcached truncates the expiration to
// whole seconds.
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
}

// Delete removes key, for example to unblock a host early
func (m *MemcacheService) Delete(key string) error {
	return m.client.Delete(key)
}