package gameservice

import (
	"errors"
	"fmt"

	gamedb "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/apperrors"
)

var (
	// ErrNoPairs rejects an empty batch.
	ErrNoPairs = fmt.Errorf("%w: at least one winner and loser pair is required", apperrors.ErrValidation)
	// ErrGameNotFound is reported for missing or already deleted games.
	ErrGameNotFound = gamedb.ErrNotFound
	// ErrInvalidRange rejects an export whose start is after its end.
	ErrInvalidRange = fmt.Errorf("%w: start date is after end date", apperrors.ErrValidation)

	errRollback = errors.New("rollback on failure result")
)

// InvalidPairingError rejects a pair whose winner and loser are the same player.
type InvalidPairingError struct {
	Player string
}

func (e *InvalidPairingError) Error() string {
	return fmt.Sprintf("winner and loser cannot be the same person: %s", e.Player)
}

func (e *InvalidPairingError) Unwrap() error { return apperrors.ErrValidation }

// ForeignPlayerError rejects a player registered in a different chat.
type ForeignPlayerError struct {
	Player string
	ChatID int64
}

func (e *ForeignPlayerError) Error() string {
	return fmt.Sprintf("player %s is not registered in chat %d", e.Player, e.ChatID)
}

func (e *ForeignPlayerError) Unwrap() error { return apperrors.ErrValidation }
