package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-api/pkg/apierror"
)

func TestPathValidatorResolvePath(t *testing.T) {
	t.Parallel()

	validator, err := NewPathValidator(t.TempDir())
	require.NoError(t, err)

	t.Run("root path resolves to root", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath("/")
		require.NoError(t, resolveErr)
		require.Equal(t, validator.RootAbs(), resolved)
	})

	t.Run("image path resolves inside root", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath("/images/banners/banner-1.jpg")
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "images", "banners", "banner-1.jpg"), resolved)
	})

	t.Run("backslashes are normalized", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath(`images\products\p.png`)
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "images", "products", "p.png"), resolved)
	})

	t.Run("path traversal is forbidden", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("/images/../../etc/passwd")
		require.Error(t, resolveErr)
		assert.True(t, apierror.Is(resolveErr, apierror.KindForbidden))
	})

	t.Run("control characters are rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("images\nproduct.jpg")
		require.Error(t, resolveErr)
	})

	t.Run("null bytes are rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("images\x00/product.jpg")
		require.Error(t, resolveErr)
	})

	t.Run("sibling directory with shared prefix is outside root", func(t *testing.T) {
		require.False(t, isWithinRoot("/srv/public", "/srv/public-old/a.jpg"))
		require.True(t, isWithinRoot("/srv/public", "/srv/public/images/a.jpg"))
	})
}
