// Package firestore implements the device registry on Google Cloud
// Firestore.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/cartloop/go-push-service/pkg/dispatch"
	"github.com/cartloop/go-push-service/pkg/notification"
)

const devicesCollection = "device_tokens"

// DeviceStore implements dispatch.DeviceStore using Firestore. Documents
// are keyed by the registry-assigned UUID; token and customer lookups go
// through field queries.
type DeviceStore struct {
	client *firestore.Client
}

var _ dispatch.DeviceStore = (*DeviceStore)(nil)

func NewDeviceStore(client *firestore.Client) *DeviceStore {
	return &DeviceStore{client: client}
}

func (s *DeviceStore) devices() *firestore.CollectionRef {
	return s.client.Collection(devicesCollection)
}

// RegisterDevice upserts on (customer, token): an existing record is
// refreshed and reactivated in place, so repeated registrations never
// duplicate.
func (s *DeviceStore) RegisterDevice(ctx context.Context, customerID string, reg notification.DeviceRegistration) (*notification.DeviceToken, error) {
	now := time.Now().UTC()

	existing, err := s.findByCustomerToken(ctx, customerID, reg.Token)
	if err != nil && err != dispatch.ErrDeviceNotFound {
		return nil, err
	}

	record := notification.DeviceToken{
		CustomerID: customerID,
		Token:      reg.Token,
		Platform:   reg.Platform,
		AppVersion: reg.AppVersion,
		DeviceInfo: reg.DeviceInfo,
		IsActive:   true,
		LastUsedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		record.ID = uuid.NewString()
	}

	if _, err := s.devices().Doc(record.ID).Set(ctx, record); err != nil {
		return nil, fmt.Errorf("register device: %w", err)
	}
	return &record, nil
}

func (s *DeviceStore) UpdateDevice(ctx context.Context, id string, upd notification.DeviceUpdate) (*notification.DeviceToken, error) {
	ref := s.devices().Doc(id)
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, dispatch.ErrDeviceNotFound
	}

	var record notification.DeviceToken
	if err := snap.DataTo(&record); err != nil {
		return nil, fmt.Errorf("decode device %s: %w", id, err)
	}

	if upd.Token != nil {
		record.Token = *upd.Token
	}
	if upd.AppVersion != nil {
		record.AppVersion = *upd.AppVersion
	}
	if upd.DeviceInfo != nil {
		record.DeviceInfo = upd.DeviceInfo
	}
	if upd.IsActive != nil {
		record.IsActive = *upd.IsActive
		if !record.IsActive {
			now := time.Now().UTC()
			record.DeletedAt = &now
		} else {
			record.DeletedAt = nil
		}
	}
	record.UpdatedAt = time.Now().UTC()

	if _, err := ref.Set(ctx, record); err != nil {
		return nil, fmt.Errorf("update device %s: %w", id, err)
	}
	return &record, nil
}

// DeactivateDevice soft-deletes: the record stays, flagged inactive.
func (s *DeviceStore) DeactivateDevice(ctx context.Context, token string) error {
	record, err := s.GetDeviceByToken(ctx, token)
	if err != nil {
		return err
	}
	return s.deactivate(ctx, record.ID)
}

func (s *DeviceStore) DeactivateCustomerDevices(ctx context.Context, customerID string) (int, error) {
	iter := s.devices().
		Where("customer_id", "==", customerID).
		Where("is_active", "==", true).
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return count, fmt.Errorf("firestore iteration failed: %w", err)
		}
		if err := s.deactivate(ctx, doc.Ref.ID); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *DeviceStore) GetCustomerDevices(ctx context.Context, customerID string) ([]notification.DeviceToken, error) {
	iter := s.devices().
		Where("customer_id", "==", customerID).
		Where("is_active", "==", true).
		Documents(ctx)
	defer iter.Stop()

	devices := make([]notification.DeviceToken, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore iteration failed: %w", err)
		}

		var record notification.DeviceToken
		if err := doc.DataTo(&record); err != nil {
			// Skip corrupt rows rather than failing the whole fetch.
			continue
		}
		devices = append(devices, record)
	}
	return devices, nil
}

func (s *DeviceStore) GetDeviceByToken(ctx context.Context, token string) (*notification.DeviceToken, error) {
	iter := s.devices().Where("token", "==", token).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, dispatch.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore lookup failed: %w", err)
	}

	var record notification.DeviceToken
	if err := doc.DataTo(&record); err != nil {
		return nil, fmt.Errorf("decode device: %w", err)
	}
	return &record, nil
}

func (s *DeviceStore) TouchDevice(ctx context.Context, token string) error {
	record, err := s.GetDeviceByToken(ctx, token)
	if err != nil {
		return err
	}
	_, err = s.devices().Doc(record.ID).Update(ctx, []firestore.Update{
		{Path: "last_used_at", Value: time.Now().UTC()},
	})
	return err
}

// CleanupInactiveTokens hard-deletes records that were soft-deleted more
// than daysThreshold days ago.
func (s *DeviceStore) CleanupInactiveTokens(ctx context.Context, daysThreshold int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysThreshold)

	iter := s.devices().
		Where("is_active", "==", false).
		Where("deleted_at", "<", cutoff).
		Documents(ctx)
	defer iter.Stop()

	removed := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return removed, fmt.Errorf("firestore iteration failed: %w", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return removed, fmt.Errorf("delete device %s: %w", doc.Ref.ID, err)
		}
		removed++
	}
	return removed, nil
}

// MarkTokensAsInvalid deactivates every listed token. Tokens no longer in
// the registry are skipped; invalidation is idempotent.
func (s *DeviceStore) MarkTokensAsInvalid(ctx context.Context, tokens []string) error {
	for _, token := range tokens {
		err := s.DeactivateDevice(ctx, token)
		if err != nil && err != dispatch.ErrDeviceNotFound {
			return err
		}
	}
	return nil
}

func (s *DeviceStore) findByCustomerToken(ctx context.Context, customerID, token string) (*notification.DeviceToken, error) {
	iter := s.devices().
		Where("customer_id", "==", customerID).
		Where("token", "==", token).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, dispatch.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore lookup failed: %w", err)
	}

	var record notification.DeviceToken
	if err := doc.DataTo(&record); err != nil {
		return nil, fmt.Errorf("decode device: %w", err)
	}
	return &record, nil
}

func (s *DeviceStore) deactivate(ctx context.Context, id string) error {
	now := time.Now().UTC()
	_, err := s.devices().Doc(id).Update(ctx, []firestore.Update{
		{Path: "is_active", Value: false},
		{Path: "deleted_at", Value: now},
		{Path: "updated_at", Value: now},
	})
	return err
}
