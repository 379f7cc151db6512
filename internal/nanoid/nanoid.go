// Package nanoid generates short, URL-safe, high-entropy identifiers.
//
// Session handles double as unguessable capability tokens, so the random
// source must be cryptographic, never math/rand.
package nanoid

import (
	"crypto/rand"
	"fmt"
)

// alphabet is the 64-symbol URL-safe alphabet. No visually ambiguous or
// URL-unsafe characters; letters, digits, hyphen and underscore only.
const alphabet = "useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict"

// DefaultSize is the ID length used when callers have no specific need.
const DefaultSize = 32

// New returns a random ID of exactly size characters.
//
// Each output character is uniform over the alphabet: masking a random byte
// with 63 yields a value in [0,64), and because 64 divides 256 evenly the
// mask introduces no bias (unlike a modulo reduction would for alphabets
// that don't divide 256).
//
// The only failure mode is an unavailable entropy source, which is
// unrecoverable; callers should treat the error as fatal and not retry.
func New(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("nanoid: size must be positive, got %d", size)
	}

	bytes := make([]byte, size)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("nanoid: entropy source unavailable: %w", err)
	}

	id := make([]byte, size)
	for i, b := range bytes {
		id[i] = alphabet[b&63]
	}
	return string(id), nil
}

// NewDefault returns a random ID of DefaultSize characters.
func NewDefault() (string, error) {
	return New(DefaultSize)
}
