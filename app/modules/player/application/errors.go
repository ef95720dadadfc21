package playerservice

import (
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/game-manager-bot/app/shared/apperrors"
)

// ErrAlreadyRegistered is the integrity violation for a duplicate /add_me race.
var ErrAlreadyRegistered = fmt.Errorf("%w: player already registered", apperrors.ErrIntegrity)

// errRollback aborts a transaction whose operation produced a domain failure.
var errRollback = errors.New("rollback on failure result")

// PlayerNotFoundError names the mention that did not resolve.
type PlayerNotFoundError struct {
	Identifier string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player %s not found", e.Identifier)
}

func (e *PlayerNotFoundError) Unwrap() error { return apperrors.ErrValidation }
