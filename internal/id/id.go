// Package id generates and validates entity identifiers.
//
// Identifiers are 24 lowercase hex characters: a 4-byte big-endian unix
// timestamp followed by 8 random bytes. The timestamp prefix keeps ids
// roughly sortable by creation time, which the task listing relies on
// for its default insertion order.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
)

// Length is the exact identifier width accepted by the API.
const Length = 24

// New returns a fresh 24-character identifier.
func New() (string, error) {
	var raw [12]byte
	binary.BigEndian.PutUint32(raw[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(raw[4:]); err != nil {
		return "", fmt.Errorf("generate id entropy: %w", err)
	}
	return hex.EncodeToString(raw[:]), nil
}

// Valid reports whether s is a well-formed identifier.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
