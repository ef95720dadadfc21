package playerdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Player is a registered participant of one chat.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID         int64     `bun:"id,pk,autoincrement"`
	ExternalID int64     `bun:"external_id,notnull"`
	ChatID     int64     `bun:"chat_id,notnull"`
	FirstName  string    `bun:"first_name,notnull"`
	Username   *string   `bun:"username"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Handle returns "@username" when the player has one, otherwise the first name.
func (p *Player) Handle() string {
	if p.Username != nil && *p.Username != "" {
		return "@" + *p.Username
	}
	return p.FirstName
}
