package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapDoesNotMutateSentinel(t *testing.T) {
	sentinel := New("base failure")
	wrapped := sentinel.Wrap(fmt.Errorf("root cause"))

	require.NotSame(t, sentinel, wrapped)
	assert.NoError(t, sentinel.Unwrap())
	assert.EqualError(t, wrapped.Unwrap(), "root cause")
	assert.Equal(t, "base failure", wrapped.Error())
}

func TestIsMatchesOrigin(t *testing.T) {
	sentinel := New("command failed")
	other := New("command failed")

	wrapped := sentinel.Wrap(fmt.Errorf("exit status 2"))
	rewrapped := wrapped.Wrap(fmt.Errorf("exit status 3"))

	assert.True(t, Is(wrapped, sentinel))
	assert.True(t, Is(rewrapped, sentinel))

	// same message, different sentinel: no match
	assert.False(t, Is(other.Wrap(nil), sentinel))
}

func TestWrapMsgKeepsIdentity(t *testing.T) {
	sentinel := New("tool exited with an error")
	detailed := sentinel.WrapMsg("tool exited with an error: pull", fmt.Errorf("exit status 1"))

	assert.True(t, Is(detailed, sentinel))
	assert.Equal(t, "tool exited with an error: pull", detailed.Error())
	assert.EqualError(t, detailed.Unwrap(), "exit status 1")
}

type flagged struct{ code int }

func (f *flagged) Error() string { return fmt.Sprintf("code %d", f.code) }

func TestAsReachesCause(t *testing.T) {
	cause := &flagged{code: 42}
	err := New("wrapper").Wrap(cause)

	var target *flagged
	require.True(t, As(err, &target))
	assert.Equal(t, 42, target.code)
}
