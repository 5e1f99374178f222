package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundtrip(t *testing.T) {
	s, err := NewStorage(Config{Type: "local", BasePath: t.TempDir()})
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte("candidate resume bytes")

	require.NoError(t, s.Save(ctx, "candidates/c1/resume.pdf", bytes.NewReader(data), "application/pdf"))

	exists, err := s.Exists(ctx, "candidates/c1/resume.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	size, err := s.GetSize(ctx, "candidates/c1/resume.pdf")
	require.NoError(t, err)
	assert.EqualValues(t, len(data), size)

	r, err := s.Get(ctx, "candidates/c1/resume.pdf")
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, data, got)

	url, err := s.GetURL(ctx, "candidates/c1/resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/files/candidates/c1/resume.pdf", url)

	require.NoError(t, s.Delete(ctx, "candidates/c1/resume.pdf"))
	exists, err = s.Exists(ctx, "candidates/c1/resume.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	// Повторное удаление не ошибка
	assert.NoError(t, s.Delete(ctx, "candidates/c1/resume.pdf"))
}

func TestNewStorageRejectsUnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "s3"})
	assert.Error(t, err)
}
