package chathandlers

import (
	"errors"

	chatdomain "github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/domain"
	"github.com/Black-And-White-Club/game-manager-bot/app/modules/chat/render"
	gameservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/game/application"
	playerservice "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/application"
	"github.com/Black-And-White-Club/game-manager-bot/app/shared/apperrors"
)

// replyFor maps an expected error to the text shown to the user. ok is false
// for unexpected errors.
func replyFor(err error) (text string, ok bool) {
	var (
		pairing    *gameservice.InvalidPairingError
		foreign    *gameservice.ForeignPlayerError
		missing    *playerservice.PlayerNotFoundError
		validation *apperrors.ValidationError
	)
	switch {
	case errors.As(err, &pairing):
		return render.SamePlayer(pairing.Player), true
	case errors.As(err, &missing):
		return render.PlayerNotFound(missing.Identifier), true
	case errors.As(err, &foreign):
		return render.PlayerNotFound(foreign.Player), true
	case errors.Is(err, gameservice.ErrNoPairs):
		return chatdomain.ErrPlayerCount.Reason, true
	case errors.Is(err, gameservice.ErrInvalidRange):
		return render.InvalidRangeText, true
	case errors.As(err, &validation):
		return validation.Reason, true
	case errors.Is(err, playerservice.ErrAlreadyRegistered):
		return render.AlreadyPlayerText, true
	}
	return "", false
}
