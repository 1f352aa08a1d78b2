package providers

import (
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-nest/framework/container"
)

// TokenDb resolves the database provider.
const TokenDb container.Token = "providers.db"

// TokenStore is the abstract storage contract. Db and Cache both implement
// it; Db is the primary implementer, so injecting TokenStore without a name
// yields the database.
const TokenStore container.Token = "contracts.store"

// Store is a minimal key/value persistence contract.
type Store interface {
	Put(key string, value any)
	Get(key string) (any, bool)
}

// nest:provider
//
// Db is an in-memory stand-in for a database connection. It opens on OnInit
// and closes on OnShutdown, which together with its high priority guarantees
// it outlives every provider that depends on it.
type Db struct {
	log *zap.Logger

	mu   sync.RWMutex
	rows map[string]any
	open bool
}

func (d *Db) OnInit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows = make(map[string]any)
	d.open = true
	d.log.Info("database opened")
	return nil
}

func (d *Db) OnShutdown(signal string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.rows = nil
	d.log.Info("database closed", zap.String("signal", signal))
	return nil
}

func (d *Db) Put(key string, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rows != nil {
		d.rows[key] = value
	}
}

func (d *Db) Get(key string) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	value, ok := d.rows[key]
	return value, ok
}

func dbDescriptor() *container.Descriptor {
	return &container.Descriptor{
		Token:      TokenDb,
		Name:       "Db",
		Priority:   100,
		Implements: TokenStore,
		Primary:    true,
		Construct: func([]any) (any, error) {
			return &Db{}, nil
		},
		Fields: []container.FieldDependency{{
			Field: "log",
			Token: TokenLogger,
			Assign: func(instance, dep any) {
				instance.(*Db).log = dep.(*zap.Logger)
			},
		}},
	}
}
