package orders

import (
	"context"

	"github.com/restaunax/orders-api/internal/domain"
)

// Store holds the authoritative order collection. ListAll returns orders in
// insertion order; callers re-sort as needed. Id generation is owned by the
// store so that ids stay unique regardless of how the collection shrinks or
// grows — they are never derived from the collection length.
type Store interface {
	ListAll(ctx context.Context) ([]domain.Order, error)
	// FindByID returns domain.ErrOrderNotFound for an unknown id.
	FindByID(ctx context.Context, id string) (domain.Order, error)
	// Insert returns domain.ErrDuplicateOrderID if the id is already present.
	Insert(ctx context.Context, order domain.Order) error
	// Replace returns domain.ErrOrderNotFound if the id is absent.
	Replace(ctx context.Context, id string, order domain.Order) error
	// NextOrderID yields the next "ord_NNN" identifier.
	NextOrderID(ctx context.Context) (string, error)
	// NextItemID yields the next "item_NNN" identifier.
	NextItemID(ctx context.Context) (string, error)
}
