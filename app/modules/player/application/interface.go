package playerservice

import (
	"context"

	playerdb "github.com/Black-And-White-Club/game-manager-bot/app/modules/player/infrastructure/repositories"
)

// Identity is what the platform tells us about the user sending /add_me.
type Identity struct {
	ExternalID int64
	FirstName  string
	Username   string
}

// Mention references a player inside a command. Text mentions carry the
// platform user id; @handle mentions carry only the username.
type Mention struct {
	ExternalID int64
	Username   string
	Display    string
}

// RegisterResult reports whether /add_me created or refreshed a player.
type RegisterResult struct {
	Player  *playerdb.Player
	Created bool
}

// Service defines the player registration and identity resolution operations.
type Service interface {
	Register(ctx context.Context, chatID int64, identity Identity) (*RegisterResult, error)
	Resolve(ctx context.Context, chatID int64, mentions []Mention) ([]playerdb.Player, error)
	ListPlayers(ctx context.Context, chatID int64) ([]playerdb.Player, error)
}
