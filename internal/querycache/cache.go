// Package querycache keeps the results of read queries keyed by query name and
// parameters until a mutation invalidates them.
package querycache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type entry struct {
	value    any
	storedAt time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	l   *zap.Logger
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	entries   map[string]map[string]entry
	listeners map[string][]func()
}

// New creates a cache. ttl <= 0 keeps entries until invalidated.
func New(l *zap.Logger, ttl time.Duration) *Cache {
	return &Cache{
		l:         l,
		ttl:       ttl,
		now:       time.Now,
		entries:   make(map[string]map[string]entry),
		listeners: make(map[string][]func()),
	}
}

// Get returns the value stored under (name, params).
func (c *Cache) Get(name, params string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[name][params]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(name, params string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	variants, ok := c.entries[name]
	if !ok {
		variants = make(map[string]entry)
		c.entries[name] = variants
	}
	variants[params] = entry{value: value, storedAt: c.now()}
}

// Invalidate drops every params variant of the named queries and runs their listeners.
func (c *Cache) Invalidate(names ...string) {
	var run []func()

	c.mu.Lock()
	for _, name := range names {
		delete(c.entries, name)
		run = append(run, c.listeners[name]...)
	}
	c.mu.Unlock()

	for _, name := range names {
		c.l.Debug("query invalidated", zap.String("query", name))
	}
	for _, fn := range run {
		fn()
	}
}

// Subscribe runs fn every time name is invalidated.
func (c *Cache) Subscribe(name string, fn func()) {
	c.mu.Lock()
	c.listeners[name] = append(c.listeners[name], fn)
	c.mu.Unlock()
}

// GetOrFetch returns the cached value or calls fetch and stores its result.
// Errors are not cached.
func GetOrFetch[T any](ctx context.Context, c *Cache, name, params string, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(name, params); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(name, params, v)
	return v, nil
}
