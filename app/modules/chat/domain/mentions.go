package chatdomain

import (
	"strings"
	"unicode/utf16"
)

// Entity kinds that reference a user.
const (
	EntityMention     = "mention"
	EntityTextMention = "text_mention"
)

// Entity is a message entity as the transport reports it. Offset and Length
// count UTF-16 code units.
type Entity struct {
	Type      string
	Offset    int
	Length    int
	UserID    int64
	FirstName string
}

// MentionRef is a player reference found in a message, in message order.
// Text mentions carry ExternalID; @handle mentions carry Username.
type MentionRef struct {
	ExternalID int64
	Username   string
	Display    string
}

// ExtractMentions returns the user references of text in entity order.
// Entities pointing outside text are skipped.
func ExtractMentions(text string, entities []Entity) []MentionRef {
	units := utf16.Encode([]rune(text))
	refs := make([]MentionRef, 0, len(entities))
	for _, e := range entities {
		switch e.Type {
		case EntityTextMention:
			if e.UserID == 0 {
				continue
			}
			refs = append(refs, MentionRef{ExternalID: e.UserID, Display: e.FirstName})
		case EntityMention:
			if e.Offset < 0 || e.Length < 2 || e.Offset+e.Length > len(units) {
				continue
			}
			handle := string(utf16.Decode(units[e.Offset : e.Offset+e.Length]))
			refs = append(refs, MentionRef{
				Username: strings.TrimPrefix(handle, "@"),
				Display:  handle,
			})
		}
	}
	return refs
}

// PairMentions groups references as (winner, loser) pairs.
func PairMentions(refs []MentionRef) ([][2]MentionRef, error) {
	if len(refs) < 2 || len(refs)%2 != 0 {
		return nil, ErrPlayerCount
	}
	pairs := make([][2]MentionRef, 0, len(refs)/2)
	for i := 0; i < len(refs); i += 2 {
		pairs = append(pairs, [2]MentionRef{refs[i], refs[i+1]})
	}
	return pairs, nil
}
