package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
)

const nonceChars = "abcdefghijklmnopqrstuvwxyz"

// NonceLength is the number of characters in an invite nonce.
const NonceLength = 24

// GenerateNonce creates a random lowercase token suitable for embedding
// in an invite URL. Lowercase-only survives email clients and manual
// retyping from an SMS.
func GenerateNonce() (string, error) {
	b := make([]byte, NonceLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(nonceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate nonce: %w", err)
		}
		b[i] = nonceChars[n.Int64()]
	}
	return string(b), nil
}

// Sign computes an HMAC signature over the value, URL-safe base64
// without padding. Used for cookie signing.
func Sign(value, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(value))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// Verify reports whether sig is a valid signature for value.
func Verify(value, sig, secret string) bool {
	expected := Sign(value, secret)
	return hmac.Equal([]byte(sig), []byte(expected))
}
