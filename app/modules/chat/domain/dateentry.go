package chatdomain

import (
	"strings"
	"time"

	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseDateEntry reads a date typed during the date-entry conversation.
// YYYY-MM-DD is taken literally; anything else ("yesterday", "last friday")
// is resolved relative to now in loc.
func ParseDateEntry(text string, now time.Time, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, ErrDateEntry
	}
	if d, err := calendar.Parse(text); err == nil {
		return d, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	res, err := dateParser.Parse(text, now.In(loc))
	if err != nil || res == nil {
		return time.Time{}, ErrDateEntry
	}
	return calendar.Date(res.Time, loc), nil
}
