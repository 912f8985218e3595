package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by every lookup whose row does not exist.
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
