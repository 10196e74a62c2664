package apierr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := InvalidRequest("bad polygon")
	assert.Equal(t, KindInvalidRequest, KindOf(err))

	wrapped := errors.New("wrap") // not an *Error, and doesn't wrap one
	assert.Equal(t, KindInternal, KindOf(wrapped))
}

func TestErrorIs(t *testing.T) {
	err := InvalidRequest("bad polygon")
	assert.True(t, errors.Is(err, InvalidRequest("other message")))
	assert.False(t, errors.Is(err, Internal("x", nil)))
}
