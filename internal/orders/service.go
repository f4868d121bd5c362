package orders

import (
	"context"
	"sort"
	"time"

	"github.com/restaunax/orders-api/internal/domain"
)

// Service orchestrates the store and the validation layer into the four
// operations exposed at the HTTP boundary. It returns domain errors; mapping
// them onto status codes is the handler's job.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// List returns orders sorted by createdAt descending, optionally restricted
// to one status. Equal timestamps keep their insertion order.
func (s *Service) List(ctx context.Context, statusFilter string) ([]domain.Order, error) {
	status, err := ValidateStatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Order, 0, len(all))
	for _, order := range all {
		if status != "" && order.Status != status {
			continue
		}
		result = append(result, order)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.store.FindByID(ctx, id)
}

// Create validates the payload, assigns server-owned fields and inserts the
// order. New orders always start pending with zero reward points.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	if err := ValidateCreate(req); err != nil {
		return domain.Order{}, err
	}

	id, err := s.store.NextOrderID(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		itemID, err := s.store.NextItemID(ctx)
		if err != nil {
			return domain.Order{}, err
		}
		items = append(items, domain.OrderItem{
			ID:       itemID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	order := domain.Order{
		ID:                   id,
		CustomerName:         req.CustomerName,
		CustomerEmail:        req.CustomerEmail,
		CustomerPhone:        req.CustomerPhone,
		CustomerRewardPoints: 0,
		OrderType:            req.OrderType,
		Status:               domain.OrderStatusPending,
		Items:                items,
		Total:                domain.ItemsTotal(items),
		// Truncated to microseconds, the finest resolution TIMESTAMPTZ
		// keeps, so an order reads back identical from either store.
		CreatedAt:            s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.store.Insert(ctx, order); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

// UpdateStatus replaces only the status field of an existing order and
// returns the updated order together with the status it replaced, read in the
// same pass as the write. There is no transition graph: any valid status may
// follow any other, which keeps manual corrections possible.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, domain.OrderStatus, error) {
	if err := ValidateStatus(status); err != nil {
		return domain.Order{}, "", err
	}

	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, "", err
	}

	oldStatus := order.Status
	order.Status = status
	if err := s.store.Replace(ctx, id, order); err != nil {
		return domain.Order{}, "", err
	}

	return order, oldStatus, nil
}
