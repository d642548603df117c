package vc

import (
	"context"
	"sync"
	"time"

	"github.com/veritrust/mcpf-go/pkg/transport"
)

// StatusChecker resolves a credential's revocation status against the
// issuer-specified status mechanism.
type StatusChecker interface {
	IsRevoked(ctx context.Context, status *Status) (bool, error)
}

// statusRecord is the wire shape served at a credential status URL.
type statusRecord struct {
	Revoked bool   `json:"revoked"`
	Reason  string `json:"reason,omitempty"`
}

type statusCacheEntry struct {
	revoked   bool
	expiresAt time.Time
}

// HTTPStatusChecker fetches revocation status over HTTP, caching results
// for a short TTL. Safe for concurrent use.
type HTTPStatusChecker struct {
	client *transport.Client

	mu    sync.RWMutex
	cache map[string]statusCacheEntry
	ttl   time.Duration
}

// DefaultStatusTTL is how long a fetched revocation status is trusted
// before refetching.
const DefaultStatusTTL = 5 * time.Minute

// NewHTTPStatusChecker creates a checker using the given transport client.
func NewHTTPStatusChecker(client *transport.Client) *HTTPStatusChecker {
	if client == nil {
		client = transport.NewClient(transport.Options{})
	}
	return &HTTPStatusChecker{
		client: client,
		cache:  make(map[string]statusCacheEntry),
		ttl:    DefaultStatusTTL,
	}
}

// SetTTL configures the cache time-to-live.
func (c *HTTPStatusChecker) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl = ttl
}

// IsRevoked fetches (or serves from cache) the revocation record at the
// status URL.
func (c *HTTPStatusChecker) IsRevoked(ctx context.Context, status *Status) (bool, error) {
	c.mu.RLock()
	entry, found := c.cache[status.ID]
	ttl := c.ttl
	c.mu.RUnlock()

	if found && time.Now().Before(entry.expiresAt) {
		return entry.revoked, nil
	}

	var record statusRecord
	if err := c.client.GetJSON(ctx, "revocation check", status.ID, &record); err != nil {
		return false, err
	}

	c.mu.Lock()
	c.cache[status.ID] = statusCacheEntry{
		revoked:   record.Revoked,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()

	return record.Revoked, nil
}
