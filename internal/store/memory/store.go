// Package memory is an in-process implementation of every repository
// port. It mirrors the Postgres schema's behaviour: ordering, the
// (user_id, product_id) and (list_id, product_id) upserts, foreign keys
// and cascading deletes. It backs the unit tests and the memory store
// driver used for local development.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/dwikikusuma/storefront/internal/store"
)

type cartKey struct {
	userID    string
	productID string
}

type cartRow struct {
	id       string
	quantity int
	addedAt  time.Time
	seq      uint64
}

type listRow struct {
	rec store.ShoppingListRecord
	seq uint64
}

type listItemRow struct {
	rec store.ShoppingListItemRecord
	seq uint64
}

type orderRow struct {
	order orderdomain.Order
	seq   uint64
}

type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq uint64

	products  map[string]store.ProductRecord
	cart      map[cartKey]cartRow
	lists     map[string]listRow
	listItems map[string]listItemRow
	orders    map[string]orderRow
}

type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		now:       time.Now,
		products:  map[string]store.ProductRecord{},
		cart:      map[cartKey]cartRow{},
		lists:     map[string]listRow{},
		listItems: map[string]listItemRow{},
		orders:    map[string]orderRow{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutProduct inserts or replaces a product. Products are created by the
// seed/admin path, never by the data layer itself.
func (s *Store) PutProduct(rec store.ProductRecord) store.ProductRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	s.products[rec.ID] = rec
	return rec
}

// SetStock adjusts a product's stock, returning false if it does not exist.
func (s *Store) SetStock(productID string, stock int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return false
	}
	p.Stock = stock
	s.products[productID] = p
	return true
}

// SetPrice adjusts a product's price, returning false if it does not exist.
func (s *Store) SetPrice(productID string, price decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return false
	}
	p.Price = price
	s.products[productID] = p
	return true
}

func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

func (s *Store) Cart() *CartRepo { return &CartRepo{s: s} }

func (s *Store) Lists() *ListRepo { return &ListRepo{s: s} }

func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) productPtr(id string) *store.ProductRecord {
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	return &p
}

func foreignKeyViolation(table, column string) error {
	return fmt.Errorf("insert or update on table %q violates foreign key constraint on %q", table, column)
}

func invalidUUID(v string) error {
	return fmt.Errorf("invalid input syntax for type uuid: %q", v)
}

func checkUUID(vals ...string) error {
	for _, v := range vals {
		if _, err := uuid.Parse(v); err != nil {
			return invalidUUID(v)
		}
	}
	return nil
}

func intDecimal(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
