package chatdomain

import "github.com/Black-And-White-Club/game-manager-bot/app/shared/apperrors"

// ValidationError is a parsing failure whose Reason is shown to the user as is.
type ValidationError = apperrors.ValidationError

var (
	ErrPlayerCount = &ValidationError{Reason: "Please provide an even number of players (@winner @loser\n@winner @loser\n.\n.)."}
	ErrPlayedDate  = &ValidationError{Reason: "Invalid date format. Use date=YYYY-MM-DD."}
	ErrRankDate    = &ValidationError{Reason: "Invalid date format. Use YYYY-MM-DD or 'today'."}
	ErrExportRange = &ValidationError{Reason: "Invalid date range. Use /export YYYY-MM-DD YYYY-MM-DD."}
	ErrDateEntry   = &ValidationError{Reason: "Invalid date. Please enter a date in YYYY-MM-DD format."}
)
