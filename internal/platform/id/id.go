package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// RandomHex produces short hex identifiers. Session ids end up inline in
// the monthly activity log, so 8 random bytes keeps entries readable.
type RandomHex struct{}

func (RandomHex) New() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
