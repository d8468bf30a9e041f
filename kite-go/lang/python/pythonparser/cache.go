package pythonparser

import (
	spooky "github.com/dgryski/go-spooky"
	lru "github.com/hashicorp/golang-lru"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
)

const (
	// parseCacheSize specifies the max number of parsed files to cache
	parseCacheSize = 1000
)

var parseCache *lru.Cache

func init() {
	var err error
	parseCache, err = lru.New(parseCacheSize)
	if err != nil {
		panic(err)
	}
}

type parseEntry struct {
	mod *pythonast.Module
	err error
}

// PurgeParseCache purges the parse cache
func PurgeParseCache() {
	parseCache.Purge()
}

// --

func getCachedParse(contents []byte, opts Options) (*parseEntry, bool) {
	entry, ok := parseCache.Get(cacheKey(contents, opts))
	if !ok {
		return nil, false
	}
	return entry.(*parseEntry), true
}

func cacheParse(contents []byte, opts Options, mod *pythonast.Module, err error) {
	parseCache.Add(cacheKey(contents, opts), &parseEntry{
		mod: mod,
		err: err,
	})
}

// cacheKey hashes the contents seeded with the options that change the resulting tree
func cacheKey(contents []byte, opts Options) uint64 {
	seed := uint64(opts.ErrorMode)
	if opts.ScanOptions.KeepEOFIndent {
		seed |= 1 << 8
	}
	return spooky.Hash64Seed(contents, seed)
}
