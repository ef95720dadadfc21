package chatdomain

// State is a user's position in the date-entry conversation.
type State string

const (
	StateIdle         State = "idle"
	StateAwaitingDate State = "awaiting_date"
)

// Event drives the date-entry conversation.
type Event int

const (
	EventRequestDate Event = iota
	EventValidDate
	EventInvalidDate
	EventCancel
)

// Next returns the state after ev. Events that do not apply to from leave it unchanged.
func Next(from State, ev Event) State {
	switch ev {
	case EventCancel:
		return StateIdle
	case EventRequestDate:
		if from == StateIdle || from == "" {
			return StateAwaitingDate
		}
	case EventValidDate:
		if from == StateAwaitingDate {
			return StateIdle
		}
	case EventInvalidDate:
		if from == StateAwaitingDate {
			return StateAwaitingDate
		}
	}
	if from == "" {
		return StateIdle
	}
	return from
}
