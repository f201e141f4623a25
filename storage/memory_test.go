package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProviderRoundTrip(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	remoteId, err := p.Upload(ctx, "backup-1.xlsx", []byte("payload"), "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "backup-1.xlsx", remoteId)
	assert.Equal(t, 1, p.Len())

	data, err := p.Download(ctx, remoteId)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	_, err = p.Download(ctx, "missing")
	assert.Error(t, err)
}

func TestMemoryProviderCopiesData(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	payload := []byte("abc")
	remoteId, err := p.Upload(ctx, "obj", payload, "")
	require.NoError(t, err)
	payload[0] = 'z'

	data, err := p.Download(ctx, remoteId)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
}

func TestFromEnvSelectsMemory(t *testing.T) {
	t.Setenv("STORAGE_PROVIDER", "memory")
	_, ok := FromEnv().(*MemoryProvider)
	assert.True(t, ok)

	t.Setenv("STORAGE_PROVIDER", "")
	_, ok = FromEnv().(*GCSProvider)
	assert.True(t, ok)
}
