// Package identity derives the lookup key under which a student's
// national ID is stored. IDs are never persisted in cleartext: the
// importer and this service both hash the cleaned, zero-padded number
// with a shared salt, so the derivation here must stay bit-exact with
// the rows already in the database.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// Width is the fixed digit count of a normalized national ID.
const Width = 11

// Normalize strips every non-digit character and left-pads the result
// with zeros to Width digits. Empty or fully non-numeric input yields a
// string of zeros, which is a legal (if unlikely) key, not an error.
func Normalize(raw string) string {
	digits := make([]byte, 0, Width)
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) >= Width {
		return string(digits)
	}
	padded := make([]byte, Width-len(digits), Width)
	for i := range padded {
		padded[i] = '0'
	}
	return string(append(padded, digits...))
}

// LastDigits returns the trailing n digits of the normalized input, for
// messages that must never echo the full ID.
func LastDigits(raw string, n int) string {
	cleaned := Normalize(raw)
	if n >= len(cleaned) {
		return cleaned
	}
	return cleaned[len(cleaned)-n:]
}

// Hasher produces salted lookup keys.
type Hasher struct {
	salt string
}

// NewHasher builds a Hasher bound to the process-wide salt.
func NewHasher(salt string) *Hasher {
	return &Hasher{salt: salt}
}

// Key returns hex(sha256(Normalize(raw) + salt)).
func (h *Hasher) Key(raw string) string {
	sum := sha256.Sum256([]byte(Normalize(raw) + h.salt))
	return hex.EncodeToString(sum[:])
}
