package synthesis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gosyrec/pkg/syrec"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// CompileSource parses src and synthesizes its entry module.
func CompileSource(src string, opts syrec.Options, s *Synthesizer) (*Result, error) {
	prog, err := syrec.ParseSource(src, opts)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	return s.Synthesize(prog)
}

// DefaultCacheSize is the number of results a Cache keeps by default.
const DefaultCacheSize = 64

// Cache memoizes CompileSource. Cached results are shared between callers
// and must not be modified.
type Cache struct {
	results *lru.Cache[string, *Result]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	results, err := lru.New[string, *Result](size)
	if err != nil {
		return nil, errors.Wrap(err, "create cache")
	}
	return &Cache{results: results}, nil
}

// Compile returns the cached result for src under the parser options and
// synthesizer configuration, compiling it on a miss. Failures are not
// cached.
func (c *Cache) Compile(src string, opts syrec.Options, s *Synthesizer) (*Result, bool, error) {
	key := cacheKey(src, opts, s)
	if res, ok := c.results.Get(key); ok {
		return res, true, nil
	}
	res, err := CompileSource(src, opts, s)
	if err != nil {
		return nil, false, err
	}
	c.results.Add(key, res)
	return res, false, nil
}

func (c *Cache) Len() int { return c.results.Len() }

func (c *Cache) Purge() { c.results.Purge() }

func cacheKey(src string, opts syrec.Options, s *Synthesizer) string {
	h := sha256.New()
	h.Write([]byte(src))
	main := "<default>"
	if s.settings.MainModule != nil {
		main = *s.settings.MainModule
	}
	fmt.Fprintf(h, "\x00%d\x00%s\x00%s\x00%d\x00%t",
		opts.DefaultBitwidth, s.strategy, main, s.settings.Truncation, s.settings.InlineDebugInfo)
	return hex.EncodeToString(h.Sum(nil))
}
