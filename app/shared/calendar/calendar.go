package calendar

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Layout is the only date format accepted in commands.
const Layout = "2006-01-02"

// DefaultZone is used when no reference zone is configured.
const DefaultZone = "Asia/Tehran"

// Date truncates t to its calendar day in loc and returns it as UTC midnight,
// which is how dates are stored in the games table.
func Date(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads a strict YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	d, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Format renders a stored date.
func Format(d time.Time) string {
	return d.Format(Layout)
}

// LoadZone resolves a zone name, falling back to DefaultZone when empty.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", name, err)
	}
	return loc, nil
}
