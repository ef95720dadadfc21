package rankingdb

// PlayerRecord is a player's win and loss tally.
type PlayerRecord struct {
	PlayerID  int64   `bun:"player_id"`
	FirstName string  `bun:"first_name"`
	Username  *string `bun:"username"`
	Wins      int     `bun:"wins"`
	Losses    int     `bun:"losses"`
}
