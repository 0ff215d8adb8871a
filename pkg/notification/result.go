package notification

// Stable error codes the classifier maps provider failures onto.
// Callers branch on these to decide between retrying, deactivating a
// token, or surfacing the failure.
const (
	CodeInvalidToken   = "invalid-token"
	CodeUnregistered   = "unregistered"
	CodeSenderMismatch = "sender-id-mismatch"
	CodeRateLimited    = "rate-limited"
	CodeUnavailable    = "unavailable"
	CodeInternal       = "internal"
	CodeThirdPartyAuth = "third-party-auth"
	CodeUnknown        = "unknown"
)

// Error is a classified provider failure.
type Error struct {
	// Code is one of the Code* constants above, never empty.
	Code    string `json:"code"`
	Message string `json:"message"`
	// Token identifies the recipient the failure pertains to. It is set
	// only for device-targeted sends; topic failures have no token.
	Token string `json:"token,omitempty"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// IsInvalidToken reports whether the error means the recipient token is
// dead and should be fed back into the device registry's invalidation.
func (e *Error) IsInvalidToken() bool {
	return e.Code == CodeInvalidToken || e.Code == CodeUnregistered
}

// SendResult is the outcome of delivering one message to one recipient.
// Exactly one of MessageID/Err is populated: MessageID iff Success.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Err       *Error `json:"error,omitempty"`
}

// BatchResult aggregates the outcomes of a fan-out send.
// Results is aligned positionally with the submitted token list, so
// SuccessCount+FailureCount always equals len(Results).
type BatchResult struct {
	SuccessCount int          `json:"success_count"`
	FailureCount int          `json:"failure_count"`
	Results      []SendResult `json:"results"`
}

// InvalidTokens returns the tokens whose failures classify as dead
// recipients, in submission order. The slice is empty when every send
// succeeded or failed for transient reasons.
func (b BatchResult) InvalidTokens() []string {
	var out []string
	for _, r := range b.Results {
		if r.Err != nil && r.Err.IsInvalidToken() && r.Err.Token != "" {
			out = append(out, r.Err.Token)
		}
	}
	return out
}
