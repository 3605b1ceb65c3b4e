// Package lots caches the catalog of available lots. Its lifecycle is
// independent of the per-document workflow: it shares only the gateway and
// the credential, and may be refreshed at any time.
package lots

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lotverify/docscan/internal/gateway"
	"github.com/lotverify/docscan/internal/notify"
)

// Fetcher is the gateway slice the cache depends on.
type Fetcher interface {
	FetchAvailableLots(ctx context.Context) ([]gateway.LotRecord, error)
}

const msgNoCredential = "Authentication token not found. Please log in."

// Cache holds the last successfully fetched lot list. A failed refresh
// always discards the previous list: stale records are never displayed next
// to an error banner.
type Cache struct {
	fetcher  Fetcher
	notifier notify.Notifier

	mu      sync.RWMutex
	records []gateway.LotRecord
	errText string
	loading bool
}

// NewCache creates an empty lot cache.
func NewCache(fetcher Fetcher, notifier notify.Notifier) *Cache {
	return &Cache{fetcher: fetcher, notifier: notifier}
}

// Refresh replaces the cached list with a fresh fetch. On any failure
// (precondition, transport, or application) the list is cleared and the
// reason recorded. The loading flag clears on every exit path.
func (c *Cache) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.errText = ""
	c.mu.Unlock()

	records, err := c.fetcher.FetchAvailableLots(ctx)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.records = nil
		reason, severity := refreshFailure(err)
		c.errText = reason
		c.mu.Unlock()
		c.notifier.Notify(reason, severity, 5*time.Second)
		return
	}
	c.records = records
	c.mu.Unlock()
}

func refreshFailure(err error) (string, notify.Severity) {
	if errors.Is(err, gateway.ErrNoCredential) {
		return msgNoCredential, notify.SeverityDanger
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Cause == gateway.CauseApplication {
		return apiErr.Reason, notify.SeverityWarning
	}
	return "Error: " + err.Error(), notify.SeverityDanger
}

// Records returns a copy of the cached lot list.
func (c *Cache) Records() []gateway.LotRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records := make([]gateway.LotRecord, len(c.records))
	copy(records, c.records)
	return records
}

// Err returns the last refresh failure reason, or empty after a success.
func (c *Cache) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errText
}

// Loading reports whether a refresh is in flight.
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}
