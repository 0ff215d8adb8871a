// Package dispatch contains the capability contracts the push service is
// built around: the provider messaging client it consumes and the device
// registry an external data layer must supply.
package dispatch

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/messaging"

	"github.com/cartloop/go-push-service/pkg/notification"
)

// MessagingClient defines the subset of the Firebase Messaging API we use.
// This interface allows us to mock the client for unit testing.
// Note: *messaging.Client automatically satisfies this interface.
type MessagingClient interface {
	// Send delivers a single message and returns the provider message ID.
	Send(ctx context.Context, msg *messaging.Message) (string, error)
	// SendDryRun validates a single message without delivering it.
	SendDryRun(ctx context.Context, msg *messaging.Message) (string, error)
	// SendEach delivers a batch of up to 500 messages, returning one
	// response per message in submission order.
	SendEach(ctx context.Context, msgs []*messaging.Message) (*messaging.BatchResponse, error)
	// SendEachDryRun validates a batch without delivering it.
	SendEachDryRun(ctx context.Context, msgs []*messaging.Message) (*messaging.BatchResponse, error)
}

// ErrDeviceNotFound is returned by DeviceStore lookups when no record
// matches.
var ErrDeviceNotFound = errors.New("device not found")

// DeviceStore defines the contract for managing customer device tokens.
// The push core never implements it; an external data layer does. All
// deactivation is soft-delete: records are marked inactive, never removed,
// except by CleanupInactiveTokens whose removal policy belongs to the
// implementer.
type DeviceStore interface {
	// RegisterDevice adds a device for a customer, deduplicating on
	// (customer, token): an existing active record is updated in place.
	RegisterDevice(ctx context.Context, customerID string, reg notification.DeviceRegistration) (*notification.DeviceToken, error)

	// UpdateDevice applies the non-nil fields of upd to the record with
	// the given registry-assigned ID.
	UpdateDevice(ctx context.Context, id string, upd notification.DeviceUpdate) (*notification.DeviceToken, error)

	// DeactivateDevice marks the record holding this token inactive.
	DeactivateDevice(ctx context.Context, token string) error

	// DeactivateCustomerDevices marks every active device of a customer
	// inactive and returns the number of records affected.
	DeactivateCustomerDevices(ctx context.Context, customerID string) (int, error)

	// GetCustomerDevices returns the customer's active devices. Order is
	// unspecified.
	GetCustomerDevices(ctx context.Context, customerID string) ([]notification.DeviceToken, error)

	// GetDeviceByToken returns the record holding this token, or
	// ErrDeviceNotFound.
	GetDeviceByToken(ctx context.Context, token string) (*notification.DeviceToken, error)

	// TouchDevice updates only the last-used timestamp of the record
	// holding this token.
	TouchDevice(ctx context.Context, token string) error

	// CleanupInactiveTokens removes records that have been inactive for
	// longer than daysThreshold days and returns the count removed.
	CleanupInactiveTokens(ctx context.Context, daysThreshold int) (int, error)

	// MarkTokensAsInvalid bulk-deactivates tokens the provider reported
	// as dead. This is the feedback loop from dispatch-error
	// classification back into the registry.
	MarkTokensAsInvalid(ctx context.Context, tokens []string) error
}
