package providers

import (
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-nest/framework/container"
)

// TokenCache resolves the cache provider.
const TokenCache container.Token = "providers.cache"

// nest:provider
//
// Cache is a write-through map in front of Db. It also implements Store, so
// callers that want the cache explicitly resolve the contract by name.
type Cache struct {
	db  *Db
	log *zap.Logger

	mu      sync.RWMutex
	entries map[string]any
}

func (c *Cache) OnInit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
	c.log.Info("cache warmed")
	return nil
}

func (c *Cache) OnShutdown(signal string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.log.Info("cache flushed", zap.String("signal", signal))
	return nil
}

func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
	c.db.Put(key, value)
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	if value, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return value, true
	}
	c.mu.RUnlock()

	value, ok := c.db.Get(key)
	if ok {
		c.mu.Lock()
		c.entries[key] = value
		c.mu.Unlock()
	}
	return value, ok
}

func cacheDescriptor() *container.Descriptor {
	return &container.Descriptor{
		Token:        TokenCache,
		Name:         "Cache",
		Priority:     50,
		Implements:   TokenStore,
		Dependencies: []container.Token{TokenDb},
		Construct: func(deps []any) (any, error) {
			return &Cache{db: deps[0].(*Db)}, nil
		},
		Fields: []container.FieldDependency{{
			Field: "log",
			Token: TokenLogger,
			Assign: func(instance, dep any) {
				instance.(*Cache).log = dep.(*zap.Logger)
			},
		}},
	}
}
