package photostore

import (
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateImageFile(t *testing.T) {
	require.NoError(t, ValidateImageFile(&multipart.FileHeader{Filename: "after.JPG", Size: 1024}))

	err := ValidateImageFile(&multipart.FileHeader{Filename: "notes.pdf", Size: 1024})
	require.ErrorContains(t, err, "invalid image file type: .pdf")

	err = ValidateImageFile(&multipart.FileHeader{Filename: "big.png", Size: MaxImageSize + 1})
	require.ErrorContains(t, err, "exceeds maximum")
}

func TestDisabledStore(t *testing.T) {
	_, err := Disabled{}.Upload(context.Background(), strings.NewReader("x"), "a.jpg", 1)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestCloudinaryRequiresCredentials(t *testing.T) {
	_, err := NewCloudinary("", "key", "secret", "")
	require.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	require.Equal(t, "image/png", contentTypeFor("a.PNG"))
	require.Equal(t, "image/jpeg", contentTypeFor("a.jpeg"))
}
