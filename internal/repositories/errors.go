package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by key lookups that match no record.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err represents a missing record, from either
// this package or the underlying gorm layer.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
