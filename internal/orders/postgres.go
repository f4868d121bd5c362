package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/restaunax/orders-api/internal/domain"
)

// PostgresStore is the persistent Store implementation. Id generation uses
// database sequences, so uniqueness survives restarts and concurrent writers.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_name, customer_email, customer_phone,
		       customer_reward_points, order_type, status, total, created_at
		FROM orders
		ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		var order domain.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT order_id, id, name, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY seq
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.ID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		order := orderMap[orderID]
		order.Items = append(order.Items, item)
	}

	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (domain.Order, error) {
	var order domain.Order

	row := s.db.QueryRowContext(ctx, `
		SELECT id, customer_name, customer_email, customer_phone,
		       customer_reward_points, order_type, status, total, created_at
		FROM orders
		WHERE id = $1
	`, id)
	if err := scanOrder(row, &order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY seq
	`, id)
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return domain.Order{}, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

func (s *PostgresStore) Insert(ctx context.Context, order domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_name, customer_email, customer_phone,
		                    customer_reward_points, order_type, status, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, order.ID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.CustomerRewardPoints, order.OrderType, order.Status, order.Total, order.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateOrderID
		}
		return err
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, order.ID, item.Name, item.Quantity, item.Price)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Replace rewrites the orders row only. Items are immutable once attached,
// so the order_items rows are left as they were inserted.
func (s *PostgresStore) Replace(ctx context.Context, id string, order domain.Order) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET customer_name = $1, customer_email = $2, customer_phone = $3,
		    customer_reward_points = $4, order_type = $5, status = $6, total = $7
		WHERE id = $8
	`, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.CustomerRewardPoints, order.OrderType, order.Status, order.Total, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (s *PostgresStore) NextOrderID(ctx context.Context) (string, error) {
	return s.nextID(ctx, "order_id_seq", "ord_%03d")
}

func (s *PostgresStore) NextItemID(ctx context.Context) (string, error) {
	return s.nextID(ctx, "item_id_seq", "item_%03d")
}

func (s *PostgresStore) nextID(ctx context.Context, sequence, format string) (string, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT nextval($1)`, sequence).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf(format, n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, order *domain.Order) error {
	return row.Scan(&order.ID, &order.CustomerName, &order.CustomerEmail,
		&order.CustomerPhone, &order.CustomerRewardPoints, &order.OrderType,
		&order.Status, &order.Total, &order.CreatedAt)
}

var _ Store = (*PostgresStore)(nil)
