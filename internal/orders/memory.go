package orders

import (
	"context"
	"fmt"
	"sync"

	"github.com/restaunax/orders-api/internal/domain"
)

// MemoryStore is the default Store: a mutex-guarded in-process collection.
// State resets on restart. The slice preserves insertion order for stable
// tie-breaking; the map indexes lookups by id.
type MemoryStore struct {
	mu       sync.RWMutex
	orders   []domain.Order
	index    map[string]int
	orderSeq int
	itemSeq  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]int),
	}
}

func (s *MemoryStore) ListAll(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, len(s.orders))
	for i, order := range s.orders {
		out[i] = cloneOrder(order)
	}
	return out, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(s.orders[i]), nil
}

func (s *MemoryStore) Insert(_ context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[order.ID]; exists {
		return domain.ErrDuplicateOrderID
	}
	s.index[order.ID] = len(s.orders)
	s.orders = append(s.orders, cloneOrder(order))
	return nil
}

func (s *MemoryStore) Replace(_ context.Context, id string, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	s.orders[i] = cloneOrder(order)
	return nil
}

// NextOrderID advances a monotonic counter, so ids stay unique even if the
// collection ever shrinks.
func (s *MemoryStore) NextOrderID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orderSeq++
	return fmt.Sprintf("ord_%03d", s.orderSeq), nil
}

func (s *MemoryStore) NextItemID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.itemSeq++
	return fmt.Sprintf("item_%03d", s.itemSeq), nil
}

// cloneOrder copies the order including its items slice so callers cannot
// mutate stored state through a shared backing array.
func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}

var _ Store = (*MemoryStore)(nil)
