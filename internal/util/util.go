package util

import (
	"crypto/hmac"
	"time"
)

func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// SecureEquals compares two secret tokens in constant time.
func SecureEquals(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
