package pushservice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartloop/go-push-service/pkg/notification"
)

func TestClassify_Total(t *testing.T) {
	t.Run("nil error still yields code and message", func(t *testing.T) {
		cerr := classify(nil, deviceTarget("token-1"))

		require.NotNil(t, cerr)
		assert.Equal(t, notification.CodeUnknown, cerr.Code)
		assert.NotEmpty(t, cerr.Message)
		assert.Equal(t, "token-1", cerr.Token)
	})

	t.Run("shapeless error falls back to sentinel code", func(t *testing.T) {
		cerr := classify(errors.New("something odd happened"), deviceTarget("token-1"))

		assert.Equal(t, notification.CodeUnknown, cerr.Code)
		assert.Equal(t, "something odd happened", cerr.Message)
	})
}

func TestClassify_CodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"unregistered", errors.New("requested entity was not found; code: registration-token-not-registered"), notification.CodeUnregistered},
		{"invalid token", errors.New("the registration token is not a valid FCM token; code: invalid-registration-token"), notification.CodeInvalidToken},
		{"invalid argument", errors.New("http error status: 400; code: invalid-argument"), notification.CodeInvalidToken},
		{"sender mismatch", errors.New("code: sender-id-mismatch"), notification.CodeSenderMismatch},
		{"quota", errors.New("sending limit exceeded; code: quota-exceeded"), notification.CodeRateLimited},
		{"unavailable", errors.New("backend timed out; code: unavailable"), notification.CodeUnavailable},
		{"internal", errors.New("code: internal-error"), notification.CodeInternal},
		{"third party auth", errors.New("code: third-party-auth-error"), notification.CodeThirdPartyAuth},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cerr := classify(tc.err, deviceTarget("token-x"))
			assert.Equal(t, tc.want, cerr.Code)
			assert.Equal(t, tc.err.Error(), cerr.Message)
		})
	}
}

func TestClassify_TargetContext(t *testing.T) {
	err := errors.New("code: quota-exceeded")

	t.Run("device target attaches token", func(t *testing.T) {
		cerr := classify(err, deviceTarget("token-9"))
		assert.Equal(t, "token-9", cerr.Token)
	})

	t.Run("topic target never carries a token", func(t *testing.T) {
		cerr := classify(err, topicTarget("deals"))
		assert.Empty(t, cerr.Token)
	})
}

func TestErrorIsInvalidToken(t *testing.T) {
	assert.True(t, (&notification.Error{Code: notification.CodeInvalidToken}).IsInvalidToken())
	assert.True(t, (&notification.Error{Code: notification.CodeUnregistered}).IsInvalidToken())
	assert.False(t, (&notification.Error{Code: notification.CodeRateLimited}).IsInvalidToken())
	assert.False(t, (&notification.Error{Code: notification.CodeUnknown}).IsInvalidToken())
}
