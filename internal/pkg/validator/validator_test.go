package validator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	require.True(t, IsValidEmail("citizen@example.com"))
	require.False(t, IsValidEmail(""))
	require.False(t, IsValidEmail("no-at-sign"))
}

func TestIsValidPhone(t *testing.T) {
	require.True(t, IsValidPhone("+919876543210"))
	require.False(t, IsValidPhone("0123"))
	require.False(t, IsValidPhone(" "))
}

func TestIsValidName(t *testing.T) {
	require.True(t, IsValidName("Anita Rao"))
	require.True(t, IsValidName("José"))
	require.False(t, IsValidName("A"))
	require.False(t, IsValidName("R2D2"))
}

func TestIsValidOTPCode(t *testing.T) {
	require.True(t, IsValidOTPCode("012345"))
	require.False(t, IsValidOTPCode("12345"))
	require.False(t, IsValidOTPCode("12a456"))
}

func TestIsValidCoordinates(t *testing.T) {
	require.True(t, IsValidCoordinates(12.97, 77.59))
	require.True(t, IsValidCoordinates(-90, 180))
	require.False(t, IsValidCoordinates(91, 0))
	require.False(t, IsValidCoordinates(0, -181))
	require.False(t, IsValidCoordinates(math.NaN(), 0))
}
