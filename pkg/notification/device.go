package notification

import "time"

// Platform identifies the mobile OS a device token was issued for.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// DeviceInfo is optional hardware metadata captured at registration.
type DeviceInfo struct {
	Model        string `json:"model,omitempty" yaml:"model,omitempty" firestore:"model,omitempty"`
	OSVersion    string `json:"os_version,omitempty" yaml:"os_version,omitempty" firestore:"os_version,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty" firestore:"manufacturer,omitempty"`
}

// DeviceToken is a registered device owned by exactly one customer.
// Its lifecycle belongs to the device registry: created on registration,
// mutated on update/touch, soft-deleted on deactivation. The dispatch
// layer never stores these; it only consumes Token strings as targets.
type DeviceToken struct {
	ID         string      `json:"id" firestore:"id"`
	CustomerID string      `json:"customer_id" firestore:"customer_id"`
	Token      string      `json:"token" firestore:"token"`
	Platform   Platform    `json:"platform" firestore:"platform"`
	AppVersion string      `json:"app_version,omitempty" firestore:"app_version,omitempty"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty" firestore:"device_info,omitempty"`
	IsActive   bool        `json:"is_active" firestore:"is_active"`
	LastUsedAt time.Time   `json:"last_used_at" firestore:"last_used_at"`
	CreatedAt  time.Time   `json:"created_at" firestore:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" firestore:"updated_at"`
	DeletedAt  *time.Time  `json:"deleted_at,omitempty" firestore:"deleted_at,omitempty"`
}

// DeviceRegistration is the input to registering a device. It carries no
// identity fields; the registry assigns those.
type DeviceRegistration struct {
	Token      string      `json:"token"`
	Platform   Platform    `json:"platform"`
	AppVersion string      `json:"app_version,omitempty"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty"`
}

// DeviceUpdate carries the mutable fields of a device record. nil means
// "leave unchanged".
type DeviceUpdate struct {
	Token      *string     `json:"token,omitempty"`
	AppVersion *string     `json:"app_version,omitempty"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty"`
	IsActive   *bool       `json:"is_active,omitempty"`
}
