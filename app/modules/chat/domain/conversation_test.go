package chatdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		from State
		ev   Event
		want State
	}{
		{StateIdle, EventRequestDate, StateAwaitingDate},
		{"", EventRequestDate, StateAwaitingDate},
		{StateAwaitingDate, EventValidDate, StateIdle},
		{StateAwaitingDate, EventInvalidDate, StateAwaitingDate},
		{StateAwaitingDate, EventCancel, StateIdle},
		{StateIdle, EventCancel, StateIdle},
		{StateIdle, EventValidDate, StateIdle},
		{StateIdle, EventInvalidDate, StateIdle},
		{StateAwaitingDate, EventRequestDate, StateAwaitingDate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Next(tt.from, tt.ev), "from %q event %d", tt.from, tt.ev)
	}
}
