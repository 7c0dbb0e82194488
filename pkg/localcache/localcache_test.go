package localcache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseCache(t *testing.T, c Cache) {
	_, ok, err := c.Get("tld-buddy-v7")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set("tld-buddy-v7", `{"runs":[]}`))
	require.NoError(t, c.Set("tld-buddy-v7", `{"runs":[{"id":"r"}]}`))

	v, ok, err := c.Get("tld-buddy-v7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"runs":[{"id":"r"}]}`, v)
}

func TestMemory(t *testing.T) {
	exerciseCache(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.sqlite3")
	c, err := OpenSQLite(path)
	require.NoError(t, err)
	exerciseCache(t, c)
	require.NoError(t, c.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok, err := reopened.Get("tld-buddy-v7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"runs":[{"id":"r"}]}`, v)
}
