// Package id generates the opaque public identifiers the portal hands out.
// Submission ids, user ids, audit ids and token jtis all share one shape:
// 32 lowercase hex characters, no separators.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 draws 16 random bytes and hex-encodes them.
func NewID32() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
