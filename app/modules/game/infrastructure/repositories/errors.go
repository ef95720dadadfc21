package gamedb

import (
	"fmt"

	"github.com/Black-And-White-Club/game-manager-bot/app/shared/apperrors"
)

// ErrNotFound is returned when no active game matches.
var ErrNotFound = fmt.Errorf("game %w", apperrors.ErrNotFound)
