package service

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means the recipe does not exist (or was already deleted).
	ErrNotFound = errors.New("recipe not found")
	// ErrForbidden means the caller does not own the record.
	ErrForbidden = errors.New("not the owner of this recipe")
	// ErrInvalidCredentials is returned for both unknown accounts and bad
	// passwords so the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken means an account with the given email already exists.
	ErrEmailTaken = errors.New("user already exists")
)

// StorageError wraps a backend failure. Expected failure modes (validation,
// ownership, missing rows) never produce one.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// isDuplicateKey detects a unique-constraint violation. The GORM drivers
// translate these when TranslateError is on; lib/pq connections surface the
// raw Postgres error instead, so both forms are checked.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
