package render

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var activeGameLine = regexp.MustCompile(`^(\d+)\.\s*(Game ID (\d+)\b.*)$`)

func isStruck(line string) bool {
	return (strings.HasPrefix(line, "<s>") && strings.HasSuffix(line, "</s>")) ||
		strings.HasPrefix(line, "Game ID ")
}

// StrikeDeleted rewrites a rendered games list after gameID was deleted. The
// matching active line loses its ordinal and is struck through, struck lines
// stay struck, the other active lines are renumbered from 1, and everything
// else passes through.
func StrikeDeleted(lines []string, gameID int64) []string {
	out := make([]string, 0, len(lines))
	next := 1
	for _, line := range lines {
		if isStruck(line) {
			if !strings.HasPrefix(line, "<s>") {
				line = "<s>" + line + "</s>"
			}
			out = append(out, line)
			continue
		}
		m := activeGameLine.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		if id, err := strconv.ParseInt(m[3], 10, 64); err == nil && id == gameID {
			out = append(out, "<s>"+m[2]+"</s>")
			continue
		}
		out = append(out, strconv.Itoa(next)+". "+m[2])
		next++
	}
	return out
}

// StrikeMessage applies StrikeDeleted to the plain text Telegram echoes back
// for a message. Formatting is lost in that echo, so each line is escaped
// before the transform adds its own markup.
func StrikeMessage(text string, gameID int64) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(StrikeDeleted(lines, gameID), "\n")
}
