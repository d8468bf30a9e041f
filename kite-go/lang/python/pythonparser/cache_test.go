package pythonparser

import (
	"fmt"
	"testing"

	"github.com/kiteco/pycall/kite-golib/kitectx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseCache(t *testing.T) {
	// make sure cache is empty on start
	PurgeParseCache()
	assert.Equal(t, 0, parseCache.Len(), "parse cache should be empty on start")

	opts := Options{
		ErrorMode: Recover,
	}

	// get on an empty parse cache should not return anything
	contents := []byte("test contents")
	p, ok := getCachedParse(contents, opts)
	assert.False(t, ok, "contents should not exist")
	assert.Nil(t, p, "contents should not exist")

	// add ten entries
	for i := 0; i < 10; i++ {
		contents = []byte(fmt.Sprintf("test_contents(%d)", i))
		Parse(kitectx.Background(), contents, opts)
	}
	assert.Equal(t, 10, parseCache.Len(), "parse cache should have ten entries.")

	// adding the same entries should not result in more items in the cache
	for i := 0; i < 10; i++ {
		contents = []byte(fmt.Sprintf("test_contents(%d)", i))
		Parse(kitectx.Background(), contents, opts)
	}
	assert.Equal(t, 10, parseCache.Len(), "parse cache should have ten entries.")

	// purging the cache should result in an empty cache
	PurgeParseCache()
	assert.Equal(t, 0, parseCache.Len(), "parse cache should be empty after purge")
}

func Test_ParseCacheReturnsSameTree(t *testing.T) {
	PurgeParseCache()
	src := []byte("foo(bar)\n")

	first, err := Parse(kitectx.Background(), src, Options{})
	require.NoError(t, err)
	second, err := Parse(kitectx.Background(), src, Options{})
	require.NoError(t, err)
	assert.True(t, first == second, "expected the cached module")

	// a different error mode is a different entry
	third, err := Parse(kitectx.Background(), src, Options{ErrorMode: Recover})
	require.NoError(t, err)
	assert.False(t, first == third)
	assert.Equal(t, 2, parseCache.Len())
}

func Test_ParseCacheCachesErrors(t *testing.T) {
	PurgeParseCache()
	src := []byte("def (:\n")

	_, err := Parse(kitectx.Background(), src, Options{})
	require.Error(t, err)

	entry, ok := getCachedParse(src, Options{})
	require.True(t, ok)
	assert.Nil(t, entry.mod)
	assert.Equal(t, err, entry.err)
}

func Test_LimitCacheEntries(t *testing.T) {
	PurgeParseCache()

	for i := 0; i < parseCacheSize+5; i++ {
		cacheParse([]byte(fmt.Sprintf("test contents %d", i)), Options{}, nil, nil)
	}
	assert.Equal(t, parseCacheSize, parseCache.Len(), "parse cache should be at capacity")

	// the oldest entries were evicted
	_, ok := getCachedParse([]byte("test contents 0"), Options{})
	assert.False(t, ok)
	_, ok = getCachedParse([]byte(fmt.Sprintf("test contents %d", parseCacheSize+4)), Options{})
	assert.True(t, ok)
}
