package eventbus

import "time"

const (
	GameRecordedTopic     = "game.recorded.v1"
	GameDeletedTopic      = "game.deleted.v1"
	PlayerRegisteredTopic = "player.registered.v1"
)

// GameRecordedPayload is published once per committed batch.
type GameRecordedPayload struct {
	ChatID  int64     `json:"chat_id"`
	GameIDs []int64   `json:"game_ids"`
	Date    time.Time `json:"date"`
}

// GameDeletedPayload is published after a soft delete.
type GameDeletedPayload struct {
	ChatID    int64     `json:"chat_id"`
	GameID    int64     `json:"game_id"`
	Date      time.Time `json:"date"`
	DeletedAt time.Time `json:"deleted_at"`
}

// PlayerRegisteredPayload is published for first-time registrations only.
type PlayerRegisteredPayload struct {
	ChatID     int64  `json:"chat_id"`
	PlayerID   int64  `json:"player_id"`
	ExternalID int64  `json:"external_id"`
	FirstName  string `json:"first_name"`
}
