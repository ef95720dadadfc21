package chatdomain

import (
	"strings"
	"time"

	"github.com/Black-And-White-Club/game-manager-bot/app/shared/calendar"
)

const datePrefix = "date="

// DefaultExportDays is the span exported when /export has no arguments.
const DefaultExportDays = 30

func dateToken(token string) (string, bool) {
	if len(token) < len(datePrefix) || !strings.EqualFold(token[:len(datePrefix)], datePrefix) {
		return "", false
	}
	return token[len(datePrefix):], true
}

// ParsePlayedDate finds the optional trailing date=YYYY-MM-DD token of /played.
// A date token anywhere but last is rejected.
func ParsePlayedDate(args []string) (*time.Time, error) {
	for i, arg := range args {
		value, ok := dateToken(arg)
		if !ok {
			continue
		}
		if i != len(args)-1 {
			return nil, ErrPlayedDate
		}
		d, err := calendar.Parse(value)
		if err != nil {
			return nil, ErrPlayedDate
		}
		return &d, nil
	}
	return nil, nil
}

// ParseGamesDate reads the optional date of /games. Both "date=YYYY-MM-DD"
// and a bare date are accepted; the default is today.
func ParseGamesDate(args []string, today time.Time) (time.Time, error) {
	if len(args) == 0 {
		return today, nil
	}
	if len(args) > 1 {
		return time.Time{}, ErrPlayedDate
	}
	value, ok := dateToken(args[0])
	if !ok {
		value = args[0]
	}
	d, err := calendar.Parse(value)
	if err != nil {
		return time.Time{}, ErrPlayedDate
	}
	return d, nil
}

// ParseRankDate reads the optional /rank argument. No argument means all time.
func ParseRankDate(args []string, today time.Time) (*time.Time, error) {
	if len(args) == 0 {
		return nil, nil
	}
	if strings.EqualFold(args[0], "today") {
		return &today, nil
	}
	d, err := calendar.Parse(args[0])
	if err != nil {
		return nil, ErrRankDate
	}
	return &d, nil
}

// ParseExportRange reads "/export FROM TO". Without arguments the range is the
// last DefaultExportDays days ending today.
func ParseExportRange(args []string, today time.Time) (time.Time, time.Time, error) {
	switch len(args) {
	case 0:
		return today.AddDate(0, 0, -(DefaultExportDays - 1)), today, nil
	case 2:
		from, err := calendar.Parse(args[0])
		if err != nil {
			return time.Time{}, time.Time{}, ErrExportRange
		}
		to, err := calendar.Parse(args[1])
		if err != nil {
			return time.Time{}, time.Time{}, ErrExportRange
		}
		return from, to, nil
	default:
		return time.Time{}, time.Time{}, ErrExportRange
	}
}
