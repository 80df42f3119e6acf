package model

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a random 32-character hex identifier for new rows.
func NewID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(err)
	}
	return hex.EncodeToString(buf[:])
}
