// Package cache adds read-aside caching on top of a device registry.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cartloop/go-push-service/pkg/dispatch"
	"github.com/cartloop/go-push-service/pkg/notification"
)

// CacheClient defines the subset of Redis commands we need.
type CacheClient interface {
	// Get returns the value or a specific error if not found.
	Get(ctx context.Context, key string, dest interface{}) error
	// Set stores the value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Del removes the key.
	Del(ctx context.Context, key string) error
}

// CachedDeviceStore is a decorator that adds read-aside caching to any
// DeviceStore. Only the hot path, GetCustomerDevices, is cached; every
// write path invalidates the owning customer's entry so "disable
// notifications" takes effect immediately.
type CachedDeviceStore struct {
	realStore dispatch.DeviceStore
	cache     CacheClient
	ttl       time.Duration
}

var _ dispatch.DeviceStore = (*CachedDeviceStore)(nil)

// NewCachedDeviceStore creates the decorator.
func NewCachedDeviceStore(realStore dispatch.DeviceStore, cache CacheClient, ttl time.Duration) *CachedDeviceStore {
	return &CachedDeviceStore{
		realStore: realStore,
		cache:     cache,
		ttl:       ttl,
	}
}

// --- READ PATH (read-aside) ---

func (s *CachedDeviceStore) GetCustomerDevices(ctx context.Context, customerID string) ([]notification.DeviceToken, error) {
	key := s.cacheKey(customerID)

	var cached []notification.DeviceToken
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	fresh, err := s.realStore.GetCustomerDevices(ctx, customerID)
	if err != nil {
		return nil, err
	}

	// Caching is an optimization, not a transaction. If Redis is down we
	// just serve from the real store.
	_ = s.cache.Set(ctx, key, fresh, s.ttl)

	return fresh, nil
}

// GetDeviceByToken is not cached; token lookups are rare administrative
// operations and must see the source of truth.
func (s *CachedDeviceStore) GetDeviceByToken(ctx context.Context, token string) (*notification.DeviceToken, error) {
	return s.realStore.GetDeviceByToken(ctx, token)
}

// --- WRITE PATHS (invalidate-on-write) ---

func (s *CachedDeviceStore) RegisterDevice(ctx context.Context, customerID string, reg notification.DeviceRegistration) (*notification.DeviceToken, error) {
	record, err := s.realStore.RegisterDevice(ctx, customerID, reg)
	if err != nil {
		return nil, err
	}
	return record, s.invalidate(ctx, customerID)
}

func (s *CachedDeviceStore) UpdateDevice(ctx context.Context, id string, upd notification.DeviceUpdate) (*notification.DeviceToken, error) {
	record, err := s.realStore.UpdateDevice(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	return record, s.invalidate(ctx, record.CustomerID)
}

// DeactivateDevice must clear the cache even though the DB write already
// succeeded, so notifications stop immediately.
func (s *CachedDeviceStore) DeactivateDevice(ctx context.Context, token string) error {
	record, err := s.realStore.GetDeviceByToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.realStore.DeactivateDevice(ctx, token); err != nil {
		return err
	}
	return s.invalidate(ctx, record.CustomerID)
}

func (s *CachedDeviceStore) DeactivateCustomerDevices(ctx context.Context, customerID string) (int, error) {
	count, err := s.realStore.DeactivateCustomerDevices(ctx, customerID)
	if err != nil {
		return count, err
	}
	return count, s.invalidate(ctx, customerID)
}

func (s *CachedDeviceStore) TouchDevice(ctx context.Context, token string) error {
	// Touch only moves a timestamp; the cached device list stays valid.
	return s.realStore.TouchDevice(ctx, token)
}

func (s *CachedDeviceStore) CleanupInactiveTokens(ctx context.Context, daysThreshold int) (int, error) {
	// Cleanup removes only records that are already inactive, which are
	// never part of a cached active-device list.
	return s.realStore.CleanupInactiveTokens(ctx, daysThreshold)
}

func (s *CachedDeviceStore) MarkTokensAsInvalid(ctx context.Context, tokens []string) error {
	// Resolve owners first so their cache entries can be dropped after
	// the bulk write.
	owners := make(map[string]struct{})
	for _, token := range tokens {
		record, err := s.realStore.GetDeviceByToken(ctx, token)
		if err != nil {
			continue
		}
		owners[record.CustomerID] = struct{}{}
	}

	if err := s.realStore.MarkTokensAsInvalid(ctx, tokens); err != nil {
		return err
	}

	for customerID := range owners {
		if err := s.invalidate(ctx, customerID); err != nil {
			return err
		}
	}
	return nil
}

// --- Helpers ---

func (s *CachedDeviceStore) invalidate(ctx context.Context, customerID string) error {
	// Delete the key. The next read is forced back to the real store.
	return s.cache.Del(ctx, s.cacheKey(customerID))
}

func (s *CachedDeviceStore) cacheKey(customerID string) string {
	return fmt.Sprintf("push:devices:%s", customerID)
}
