package common

import "strings"

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Used to drop passwords from memory after they were sent.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BearerValue formats an access credential for the authorization header.
func BearerValue(access string) string {
	return BearerScheme + " " + access
}

// EnsureTrailingSlash makes sure relative paths resolve under base rather
// than replacing its last segment.
func EnsureTrailingSlash(base string) string {
	if base == "" || strings.HasSuffix(base, "/") {
		return base
	}
	return base + "/"
}
