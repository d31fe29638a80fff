package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("load report: %w", New(KindNotFound, "report not found"))

	require.True(t, Is(err, ErrNotFound))
	require.False(t, Is(err, ErrForbidden))
	require.Equal(t, KindNotFound, KindOf(err))
	require.Equal(t, "report not found", MessageOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("socket closed")
	err := Wrap(KindUnavailable, "scorer unavailable", cause)

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrUnavailable)
	require.Equal(t, "scorer unavailable: socket closed", err.Error())
}

func TestKindOfUntyped(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(fmt.Errorf("boom")))
	require.Equal(t, ErrInternal.Message, MessageOf(fmt.Errorf("boom")))
}
