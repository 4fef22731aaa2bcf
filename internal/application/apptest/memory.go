// Package apptest provee repositorios y caché en memoria para probar los casos de uso sin base de datos.
package apptest

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*Products)(nil)
	_ repository.SupplierRepository = (*Suppliers)(nil)
	_ repository.RestockRepository  = (*Restocks)(nil)
	_ repository.UserRepository     = (*Users)(nil)
)

// Products repositorio de productos en memoria.
type Products struct {
	mu        sync.Mutex
	items     map[string]entity.Product
	UpdateErr error
}

// NewProducts crea el repositorio con los productos dados.
func NewProducts(products ...entity.Product) *Products {
	r := &Products{items: make(map[string]entity.Product)}
	for _, p := range products {
		r.items[p.ID] = p
	}
	return r
}

func (r *Products) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *Products) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *Products) UpdateStockAndCost(_ context.Context, productID string, quantity int64, cost decimal.Decimal) error {
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[productID]
	if !ok {
		return errors.New("producto inexistente")
	}
	p.Quantity = quantity
	p.CostPrice = cost
	r.items[productID] = p
	return nil
}

func (r *Products) ListStockLevels(_ context.Context, onlyLow bool) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.items))
	for _, p := range r.items {
		if onlyLow && p.Quantity > p.MinStock {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Products) snapshot() map[string]entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]entity.Product, len(r.items))
	for k, v := range r.items {
		cp[k] = v
	}
	return cp
}

func (r *Products) restore(items map[string]entity.Product) {
	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
}

// Suppliers repositorio de proveedores en memoria.
type Suppliers struct {
	items map[string]entity.Supplier
}

// NewSuppliers crea el repositorio con los proveedores dados.
func NewSuppliers(suppliers ...entity.Supplier) *Suppliers {
	r := &Suppliers{items: make(map[string]entity.Supplier)}
	for _, s := range suppliers {
		r.items[s.ID] = s
	}
	return r
}

func (r *Suppliers) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *Suppliers) List(_ context.Context, onlyActive bool) ([]*entity.Supplier, error) {
	out := make([]*entity.Supplier, 0, len(r.items))
	for _, s := range r.items {
		if onlyActive && !s.Active {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Restocks repositorio de eventos en memoria. Cuenta las lecturas para verificar la caché.
type Restocks struct {
	mu        sync.Mutex
	events    []entity.RestockEvent
	CreateErr error
	Reads     int
}

// NewRestocks crea el repositorio con los eventos dados.
func NewRestocks(events ...entity.RestockEvent) *Restocks {
	return &Restocks{events: append([]entity.RestockEvent(nil), events...)}
}

// Events copia de los eventos guardados.
func (r *Restocks) Events() []entity.RestockEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.RestockEvent(nil), r.events...)
}

func (r *Restocks) Create(_ context.Context, event *entity.RestockEvent) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *Restocks) List(_ context.Context, f repository.RestockFilter) ([]*entity.RestockEvent, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++
	matched := make([]entity.RestockEvent, 0)
	for _, e := range r.events {
		if f.ProductID != "" && e.ProductID != f.ProductID {
			continue
		}
		if f.SupplierID != "" && e.SupplierID != f.SupplierID {
			continue
		}
		if f.From != nil && e.RestockDate.Before(*f.From) {
			continue
		}
		if f.To != nil && e.RestockDate.After(*f.To) {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].RestockDate.After(matched[j].RestockDate) })

	total := len(matched)
	start := f.Offset
	if start > total {
		start = total
	}
	end := start + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	out := make([]*entity.RestockEvent, 0, end-start)
	for i := start; i < end; i++ {
		e := matched[i]
		out = append(out, &e)
	}
	return out, total, nil
}

func (r *Restocks) ListBySupplier(_ context.Context, supplierID string, until time.Time) ([]entity.RestockEvent, error) {
	return r.filter(func(e entity.RestockEvent) bool {
		return e.SupplierID == supplierID && !e.RestockDate.After(until)
	}), nil
}

func (r *Restocks) ListByProduct(_ context.Context, productID string) ([]entity.RestockEvent, error) {
	return r.filter(func(e entity.RestockEvent) bool { return e.ProductID == productID }), nil
}

func (r *Restocks) ListAll(_ context.Context, until time.Time) ([]entity.RestockEvent, error) {
	return r.filter(func(e entity.RestockEvent) bool { return !e.RestockDate.After(until) }), nil
}

func (r *Restocks) filter(keep func(entity.RestockEvent) bool) []entity.RestockEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads++
	out := make([]entity.RestockEvent, 0)
	for _, e := range r.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// TxRunner simula una transacción: si fn falla restaura el estado previo de los repositorios.
type TxRunner struct {
	Restocks *Restocks
	Products *Products
	Runs     int
}

func (t *TxRunner) Run(ctx context.Context, fn func(
	restockRepo repository.RestockRepository,
	productRepo repository.ProductRepository,
) error) error {
	t.Runs++
	events := t.Restocks.Events()
	products := t.Products.snapshot()
	if err := fn(t.Restocks, t.Products); err != nil {
		t.Restocks.mu.Lock()
		t.Restocks.events = events
		t.Restocks.mu.Unlock()
		t.Products.restore(products)
		return err
	}
	return nil
}

// Users repositorio de usuarios en memoria.
type Users struct {
	items map[string]entity.User
}

// NewUsers crea el repositorio con los usuarios dados (indexados por username).
func NewUsers(users ...entity.User) *Users {
	r := &Users{items: make(map[string]entity.User)}
	for _, u := range users {
		r.items[u.Username] = u
	}
	return r
}

func (r *Users) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	u, ok := r.items[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Cache caché sin expiración que cuenta aciertos, cargas e invalidaciones.
type Cache struct {
	mu      sync.Mutex
	data    map[string][]byte
	Loads   int
	Hits    int
	Bumps   int
	BumpErr error
}

// NewCache crea la caché vacía.
func NewCache() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	c.mu.Lock()
	raw, ok := c.data[key]
	if ok {
		c.Hits++
	}
	c.mu.Unlock()
	if ok {
		return json.Unmarshal(raw, dest)
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err = json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.Loads++
	c.data[key] = raw
	c.mu.Unlock()
	return json.Unmarshal(raw, dest)
}

func (c *Cache) Bump(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Bumps++
	if c.BumpErr != nil {
		return c.BumpErr
	}
	c.data = make(map[string][]byte)
	return nil
}
