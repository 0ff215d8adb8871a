package pushservice

import (
	"strings"

	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"

	"github.com/cartloop/go-push-service/pkg/notification"
)

// target tags the context an error was raised in. Device targets carry the
// token so the classified error can name the recipient; topic targets
// never do.
type target struct {
	topic string
	token string
}

func deviceTarget(token string) target { return target{token: token} }
func topicTarget(topic string) target  { return target{topic: topic} }

// Raw FCM error strings, matched when the error did not come from the
// Firebase SDK's typed error chain (e.g. a mock, or a wrapped transport
// error that lost its type).
var codeSubstrings = []struct {
	substr string
	code   string
}{
	{"registration-token-not-registered", notification.CodeUnregistered},
	{"unregistered", notification.CodeUnregistered},
	{"invalid-registration-token", notification.CodeInvalidToken},
	{"invalid-argument", notification.CodeInvalidToken},
	{"mismatched-credential", notification.CodeSenderMismatch},
	{"sender-id-mismatch", notification.CodeSenderMismatch},
	{"quota-exceeded", notification.CodeRateLimited},
	{"message-rate-exceeded", notification.CodeRateLimited},
	{"unavailable", notification.CodeUnavailable},
	{"internal-error", notification.CodeInternal},
	{"third-party-auth-error", notification.CodeThirdPartyAuth},
}

// classify maps any provider-reported failure into a stable error record.
// Total: a nil or shapeless error still yields a non-empty code and
// message. The token field is attached only for device targets.
func classify(err error, tgt target) *notification.Error {
	out := &notification.Error{
		Code:    notification.CodeUnknown,
		Message: "unknown provider error",
		Token:   tgt.token,
	}
	if err == nil {
		return out
	}

	if msg := err.Error(); msg != "" {
		out.Message = msg
	}

	switch {
	case messaging.IsRegistrationTokenNotRegistered(err):
		out.Code = notification.CodeUnregistered
	case errorutils.IsInvalidArgument(err):
		out.Code = notification.CodeInvalidToken
	case messaging.IsSenderIDMismatch(err):
		out.Code = notification.CodeSenderMismatch
	case messaging.IsQuotaExceeded(err):
		out.Code = notification.CodeRateLimited
	case errorutils.IsUnavailable(err):
		out.Code = notification.CodeUnavailable
	case errorutils.IsInternal(err):
		out.Code = notification.CodeInternal
	case messaging.IsThirdPartyAuthError(err):
		out.Code = notification.CodeThirdPartyAuth
	default:
		lower := strings.ToLower(out.Message)
		for _, m := range codeSubstrings {
			if strings.Contains(lower, m.substr) {
				out.Code = m.code
				break
			}
		}
	}

	return out
}
