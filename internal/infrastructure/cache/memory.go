package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Farmacia-api/internal/application/ports"
)

var _ ports.Cache = (*MemoryCache)(nil)

const backendMemory = "memory"

type memoryItem struct {
	payload []byte
	expires time.Time
}

// MemoryCache caché JSON en proceso con TTL, para el modo escritorio o cuando no hay Redis.
type MemoryCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	items   map[string]memoryItem
	gen     uint64 // sube con cada Bump; protegido por mu
	group   singleflight.Group
	metrics *Metrics
	now     func() time.Time
}

// NewMemoryCache construye la caché en memoria. metrics puede ser nil.
func NewMemoryCache(ttl time.Duration, metrics *Metrics) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		items:   make(map[string]memoryItem),
		metrics: metrics,
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj (tests de expiración).
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

// FetchJSON ver ports.Cache.
func (c *MemoryCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	payload, gen, ok := c.get(key)
	if ok {
		c.metrics.hit(backendMemory)
		return json.Unmarshal(payload, dest)
	}

	c.metrics.miss(backendMemory)
	// La generación entra en la key compartida: una lectura iniciada después de Bump
	// no se une a una carga anterior.
	raw, err := loadOnce(ctx, &c.group, fmt.Sprintf("%s#%d", key, gen), func(loadCtx context.Context) ([]byte, error) {
		value, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.items[key] = memoryItem{payload: raw, expires: c.now().Add(c.ttl)}
		}
		c.mu.Unlock()
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump descarta todas las entradas. Las cargas en curso ya no se guardan.
func (c *MemoryCache) Bump(context.Context) error {
	c.mu.Lock()
	c.gen++
	c.items = make(map[string]memoryItem)
	c.mu.Unlock()
	return nil
}

// Len número de entradas vigentes o pendientes de purga.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// get devuelve la entrada vigente y la generación en que se leyó.
func (c *MemoryCache) get(key string) ([]byte, uint64, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	gen := c.gen
	c.mu.RUnlock()
	if !ok {
		return nil, gen, false
	}
	if !c.now().Before(item.expires) {
		c.mu.Lock()
		if current, still := c.items[key]; still && current.expires.Equal(item.expires) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, gen, false
	}
	return item.payload, gen, true
}
