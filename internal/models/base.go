// Package models contains data structures for the application's domain models.
package models

import (
	"github.com/google/uuid"
)

// newID returns an opaque identifier for a new row.
func newID() string {
	return uuid.NewString()
}

func ensureID(id *string) {
	if *id == "" {
		*id = newID()
	}
}
