package expr

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed trees a Compiler keeps by default.
const DefaultCacheSize = 1024

// Compiler parses expressions through an LRU cache keyed by their trimmed
// text. Trees are immutable, so a cached tree can be bound to any scope.
type Compiler struct {
	cache *lru.Cache[string, Node]
}

// NewCompiler creates a compiler whose cache holds up to size trees.
func NewCompiler(size int) (*Compiler, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, Node](size)
	if err != nil {
		return nil, err
	}
	return &Compiler{cache: cache}, nil
}

// Compile parses text, reusing a cached tree when possible, and binds it to scope.
func (c *Compiler) Compile(text string, scope Scope) (*Expression, error) {
	key := strings.TrimSpace(text)
	root, ok := c.cache.Get(key)
	if !ok {
		var err error
		root, err = Parse(key)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, root)
	}
	return &Expression{text: text, root: root, scope: scope}, nil
}

// Cached reports how many trees are currently cached.
func (c *Compiler) Cached() int {
	return c.cache.Len()
}
