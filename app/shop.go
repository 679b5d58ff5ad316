// Package app is a small shop whose services are wired by convention. It
// is what `go-autowire serve` and `go-autowire plan` run against.
package app

import (
	"fmt"
	"sync"
)

// ── Contracts ─────────────────────────────────────────────────────────────────

type ILogger interface {
	Log(msg string)
}

type ICache interface {
	Get(key string) (string, bool)
	Put(key, value string)
}

type ICustomerRepository interface {
	Find(id int) (string, bool)
}

type IOrderRepository interface {
	// Save stores o under the next free id and returns it with ID set.
	Save(o OrderPlaced) OrderPlaced
	Count() int
}

type IOrderService interface {
	Place(customer, total int) (OrderPlaced, error)
}

// IHandlerFor handles one event type. Every handler of an event is bound
// under the same contract and resolved together.
type IHandlerFor[TEvent any] interface {
	Handle(e TEvent) error
}

// OrderPlaced is published after an order is stored.
type OrderPlaced struct {
	ID       int
	Customer string
	Total    int // cents
}

// ── Services ──────────────────────────────────────────────────────────────────

// Logger writes to the application log.
type Logger struct {
	mu    sync.Mutex
	Lines []string
}

func (l *Logger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, msg)
}

type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryCache() *MemoryCache { return &MemoryCache{items: map[string]string{}} }

func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *MemoryCache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// NullCache stores nothing. It is marked autowire:ignore and never bound.
type NullCache struct{}

func (NullCache) Get(string) (string, bool) { return "", false }
func (NullCache) Put(string, string)        {}

type CustomerRepository struct {
	customers map[int]string
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: map[int]string{1: "Alice", 2: "Bob"}}
}

func (r *CustomerRepository) Find(id int) (string, bool) {
	name, ok := r.customers[id]
	return name, ok
}

type OrderRepository struct {
	mu     sync.Mutex
	orders []OrderPlaced
}

func (r *OrderRepository) Save(o OrderPlaced) OrderPlaced {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = len(r.orders) + 1
	r.orders = append(r.orders, o)
	return o
}

func (r *OrderRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// OrderService places orders and notifies every OrderPlaced handler.
type OrderService struct {
	Customers ICustomerRepository
	Orders    IOrderRepository
	Handlers  []IHandlerFor[OrderPlaced]
}

func (s *OrderService) Place(customer, total int) (OrderPlaced, error) {
	name, ok := s.Customers.Find(customer)
	if !ok {
		return OrderPlaced{}, fmt.Errorf("customer %d not found", customer)
	}
	o := s.Orders.Save(OrderPlaced{Customer: name, Total: total})
	for _, h := range s.Handlers {
		if err := h.Handle(o); err != nil {
			return o, err
		}
	}
	return o, nil
}

// ── Handlers ──────────────────────────────────────────────────────────────────

type SendReceipt struct {
	Log ILogger
}

func (h *SendReceipt) Handle(e OrderPlaced) error {
	h.Log.Log(fmt.Sprintf("receipt sent to %s for order #%d", e.Customer, e.ID))
	return nil
}

type CacheLastOrder struct {
	Cache ICache
}

func (h *CacheLastOrder) Handle(e OrderPlaced) error {
	h.Cache.Put("last-order", fmt.Sprintf("%d", e.ID))
	return nil
}
