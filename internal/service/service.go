// Package service implements the membership, messaging and group lifecycle
// workflows on top of the storage interfaces.
package service

import (
	"errors"

	"wandermate/server/internal/apperrors"
)

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
