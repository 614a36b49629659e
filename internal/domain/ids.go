package domain

import (
	"strings"

	"github.com/google/uuid"
)

// IDGen produces a fresh short identifier. It is injected wherever records
// are created so tests can supply deterministic ids.
type IDGen func() string

// NewShortID returns the first 8 hex characters of a random v4 UUID.
func NewShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// UniqueID draws from gen until the id is not in taken. It returns the
// first id that does not collide.
func UniqueID(gen IDGen, taken func(string) bool) string {
	for {
		id := gen()
		if id != "" && !taken(id) {
			return id
		}
	}
}
