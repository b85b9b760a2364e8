package base

import "sync"

// ProgramCache stores compiled rule programs. Keys combine the engine, the
// variable names in scope and the expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache on the instance. Caches may be
// shared by every instance of a class.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *config) {
		cfg.programCache = cache
	}
}

// MemoryProgramCache is a mutex guarded in-memory ProgramCache.
type MemoryProgramCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewMemoryProgramCache constructs an empty cache.
func NewMemoryProgramCache() *MemoryProgramCache {
	return &MemoryProgramCache{programs: map[string]any{}}
}

func (c *MemoryProgramCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	program, ok := c.programs[key]
	return program, ok
}

func (c *MemoryProgramCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.programs == nil {
		c.programs = map[string]any{}
	}
	c.programs[key] = value
}

// Len returns the number of cached programs.
func (c *MemoryProgramCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}

func cachedProgram[P any](cache ProgramCache, key string) (P, bool) {
	var zero P
	if cache == nil {
		return zero, false
	}
	value, ok := cache.Get(key)
	if !ok {
		return zero, false
	}
	program, ok := value.(P)
	return program, ok
}

func storeProgram(cache ProgramCache, key string, program any) {
	if cache != nil {
		cache.Set(key, program)
	}
}
