package notification

import "regexp"

// FCM registration tokens are opaque, but well-formed ones sit in a
// narrow length window and a restricted character set. Checking the
// shape up front saves a guaranteed-to-fail provider round trip.
const (
	minTokenLen = 140
	maxTokenLen = 200
)

var (
	tokenPattern   = regexp.MustCompile(`^[A-Za-z0-9_:-]+$`)
	versionPattern = regexp.MustCompile(`^\d+\.\d+(\.\d+)?(-[0-9A-Za-z]+(\.[0-9A-Za-z]+)*)?$`)
)

// ValidateFCMToken reports whether a string is shaped like an FCM
// registration token. It says nothing about the token being live; use
// Sender.ValidateToken for that.
func ValidateFCMToken(token string) bool {
	if len(token) < minTokenLen || len(token) > maxTokenLen {
		return false
	}
	return tokenPattern.MatchString(token)
}

// ValidatePlatform reports whether p is a supported mobile platform.
func ValidatePlatform(p string) bool {
	return p == string(PlatformIOS) || p == string(PlatformAndroid)
}

// ValidateAppVersion accepts major.minor[.patch][-prerelease] version
// strings, e.g. "1.0", "1.0.0", "1.0.0-beta".
func ValidateAppVersion(v string) bool {
	return versionPattern.MatchString(v)
}
