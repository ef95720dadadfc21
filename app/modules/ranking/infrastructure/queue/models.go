package rankingqueue

// DailyDigestJob posts a chat's leaderboard for one day.
type DailyDigestJob struct {
	ChatID int64  `json:"chat_id"`
	Date   string `json:"date"`
}

// Kind returns the job type identifier for River
func (DailyDigestJob) Kind() string { return "daily_digest" }
