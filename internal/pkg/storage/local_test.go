package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := s.Upload(ctx, strings.NewReader("hello"), "inbox/gate/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "inbox/gate/a.csv", path)

	_, err = s.Upload(ctx, strings.NewReader("x"), "inbox/gate/b.csv")
	require.NoError(t, err)

	exists, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	listed, err := s.List(ctx, "inbox/gate")
	require.NoError(t, err)
	assert.Equal(t, []string{"inbox/gate/a.csv", "inbox/gate/b.csv"}, listed)

	require.NoError(t, s.Delete(ctx, path))
	require.NoError(t, s.Delete(ctx, path))
	exists, err = s.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Download(ctx, path)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "../escape.txt")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLocalStorage_ListMissingDir(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	listed, err := s.List(context.Background(), "inbox/app")
	require.NoError(t, err)
	assert.Empty(t, listed)
}
