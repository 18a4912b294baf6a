package storage

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageBasicOperations(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Write("images/products/a.jpg", []byte("jpeg bytes")))

	info, err := store.Stat("images/products/a.jpg")
	require.NoError(t, err)
	require.False(t, info.IsDir())

	reader, err := store.OpenForRead("/images/products/a.jpg")
	require.NoError(t, err)
	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	require.Equal(t, "jpeg bytes", string(content))

	require.NoError(t, store.Remove("images/products/a.jpg"))
	_, err = store.Stat("images/products/a.jpg")
	require.Error(t, err)

	require.NoError(t, store.Remove("images/products/a.jpg"), "removing a missing file is a no-op")
}

func TestStorageRefusesRoot(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, store.Remove("/"))
}

func TestURLPathRoundTrip(t *testing.T) {
	assert.Equal(t, "/images/products/a.jpg", URLPath("images/products/a.jpg"))
	assert.Equal(t, "images/products/a.jpg", ClientPath("/images/products/a.jpg"))
	assert.Equal(t, "", ClientPath("https://cdn.example/a.jpg"))
	assert.Equal(t, "", ClientPath(""))
}
