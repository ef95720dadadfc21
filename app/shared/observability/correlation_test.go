package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	assert.Equal(t, "", CorrelationID(context.Background()))

	ctx := WithCorrelationID(context.Background(), "abc")
	assert.Equal(t, "abc", CorrelationID(ctx))
	assert.Equal(t, "abc", CorrelationAttr(ctx).Value.String())

	generated := CorrelationID(WithCorrelationID(context.Background(), ""))
	assert.Len(t, generated, 36)
}
