package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateName      = errors.New("a macroarea with this name already exists")
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrForbidden          = errors.New("not allowed to perform this action")
	ErrNotCustom          = errors.New("only custom tasks can be deleted")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInUse              = errors.New("macroarea is used by existing tests")
)

// InUseError reports how many tests still reference a macroarea.
type InUseError struct {
	Count int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("macroarea is used by %d test(s)", e.Count)
}

func (e *InUseError) Is(target error) bool {
	return target == ErrInUse
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// notFound maps a store miss onto ErrNotFound and wraps anything else.
func notFound(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", what, err)
}
