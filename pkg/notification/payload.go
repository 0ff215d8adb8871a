// Package notification contains the public domain models and pure helper
// functions for the push service: payloads, send results, device records,
// event formatters and input validation.
package notification

// Priority selects the provider delivery channel for a payload.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// Payload is the internal, provider-agnostic notification content.
// It is a value object: formatters (or callers) construct it once and the
// dispatch layer only reads it.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`

	// Data is passed through to the provider unchanged. Keys and values
	// must be strings; the FCM data payload accepts nothing else.
	Data map[string]string `json:"data,omitempty"`

	// ImageURL is forwarded only when set. Absence means the field is
	// omitted from the wire message entirely, not sent as null/empty.
	ImageURL string `json:"image_url,omitempty"`

	// Sound falls back to the platform default when empty.
	Sound string `json:"sound,omitempty"`

	// Badge is the app icon badge count. nil = leave unchanged.
	// Only device-targeted messages carry a badge.
	Badge *int `json:"badge,omitempty"`

	// ClickAction is the deep link opened when the notification is tapped.
	// Only device-targeted messages carry it; topic messages rely on Data.
	ClickAction string `json:"click_action,omitempty"`

	Priority Priority `json:"priority,omitempty"`
}
