package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	require.Equal(t, "image/png", DetectMIME(pngHeader))
	require.Equal(t, "image/gif", DetectMIME([]byte("GIF89a....")))
	require.Equal(t, "text/plain", DetectMIME([]byte("hello world")))
}

func TestIsAllowedMIME(t *testing.T) {
	t.Parallel()

	allowed := []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}
	require.True(t, IsAllowedMIME("image/JPG", allowed))
	require.True(t, IsAllowedMIME("image/png; charset=binary", allowed))
	require.False(t, IsAllowedMIME("image/svg+xml", allowed))
	require.False(t, IsAllowedMIME("application/pdf", allowed))
}

func TestIsImageExtension(t *testing.T) {
	t.Parallel()

	require.True(t, IsImageExtension(".png"))
	require.True(t, IsImageExtension(" .JPEG "))
	require.True(t, IsImageExtension(".webp"))
	require.False(t, IsImageExtension(".svg"))
	require.False(t, IsImageExtension(".pdf"))
	require.False(t, IsImageExtension(""))
}
