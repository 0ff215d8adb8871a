package notification_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cartloop/go-push-service/pkg/notification"
)

func TestValidateFCMToken(t *testing.T) {
	valid := strings.Repeat("a", 60) + ":" + strings.Repeat("B-1_x", 20)

	t.Run("accepts a well-formed token", func(t *testing.T) {
		assert.Len(t, valid, 161)
		assert.True(t, notification.ValidateFCMToken(valid))
	})

	t.Run("rejects tokens outside the length window", func(t *testing.T) {
		assert.False(t, notification.ValidateFCMToken(strings.Repeat("a", 139)))
		assert.True(t, notification.ValidateFCMToken(strings.Repeat("a", 140)))
		assert.True(t, notification.ValidateFCMToken(strings.Repeat("a", 200)))
		assert.False(t, notification.ValidateFCMToken(strings.Repeat("a", 201)))
		assert.False(t, notification.ValidateFCMToken(""))
	})

	t.Run("rejects characters outside the token alphabet", func(t *testing.T) {
		assert.False(t, notification.ValidateFCMToken(strings.Repeat("a", 150)+"!"))
		assert.False(t, notification.ValidateFCMToken(strings.Repeat("a", 150)+" "))
		assert.False(t, notification.ValidateFCMToken(strings.Repeat("a", 150)+"ü"))
	})
}

func TestValidatePlatform(t *testing.T) {
	assert.True(t, notification.ValidatePlatform("ios"))
	assert.True(t, notification.ValidatePlatform("android"))
	assert.False(t, notification.ValidatePlatform("web"))
	assert.False(t, notification.ValidatePlatform("iOS"))
	assert.False(t, notification.ValidatePlatform(""))
}

func TestValidateAppVersion(t *testing.T) {
	accepted := []string{"1.0.0", "1.0", "1.0.0-beta", "10.20.30", "2.1.0-rc.1"}
	for _, v := range accepted {
		assert.True(t, notification.ValidateAppVersion(v), "expected %q to be accepted", v)
	}

	rejected := []string{"v1.0", "1", "1.0.0.0", "", "1.0-", "1.0.0-", "one.two"}
	for _, v := range rejected {
		assert.False(t, notification.ValidateAppVersion(v), "expected %q to be rejected", v)
	}
}
