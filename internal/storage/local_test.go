package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "https://cdn.example.com/files/"})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "gallery/a.jpg", strings.NewReader("data"), 4, "image/jpeg"))

	exists, err := s.Exists(ctx, "gallery/a.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Get(ctx, "gallery/a.jpg")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "data", string(body))

	url, err := s.GetURL(ctx, "gallery/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/files/gallery/a.jpg", url)

	require.NoError(t, s.Delete(ctx, "gallery/a.jpg"))
	require.NoError(t, s.Delete(ctx, "gallery/a.jpg"), "deleting a missing file is not an error")

	exists, err = s.Exists(ctx, "gallery/a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_StaysInsideBasePath(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: base})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "../../escape.txt", strings.NewReader("x"), 1, "text/plain"))

	exists, err := s.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, exists, "path is cleaned into the base directory")
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(context.Background(), Config{Type: "ftp"})
	assert.Error(t, err)
}
