package common

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandByteArray returns n bytes from crypto/rand.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}

// MakeRandHexString returns size random bytes hex-encoded.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray zeroes b in place. Safe for nil.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
