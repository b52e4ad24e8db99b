package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/dwikikusuma/storefront/internal/store"
	"github.com/dwikikusuma/storefront/pkg/postgres"
)

const (
	createOrder = `INSERT INTO orders (user_id, status, payment_method, total_amount, discount_amount, final_amount)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

	addOrderItem = `INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	findOrdersByUser = `SELECT o.id, o.user_id, o.status, o.payment_method, o.total_amount, o.discount_amount,
       o.final_amount, o.created_at,
       i.id, i.product_id, i.quantity, i.unit_price, i.total_price, p.name, p.category
FROM orders o
LEFT JOIN order_items i ON i.order_id = o.id
LEFT JOIN products p ON p.id = i.product_id
WHERE o.user_id = $1
ORDER BY o.created_at DESC, o.id, i.id`
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(q postgres.DBTX) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	var created domain.Order

	err := store.Observe(ctx, store.Orders, "create", func(ctx context.Context) error {
		userUUID, err := uuid.Parse(order.UserID)
		if err != nil {
			return err
		}

		return r.execTX(ctx, func(q postgres.DBTX) error {
			created = order
			created.Items = make([]domain.OrderItem, 0, len(order.Items))

			err := q.QueryRowContext(ctx, createOrder,
				userUUID, order.Status, string(order.PaymentMethod),
				order.TotalAmount, order.DiscountAmount, order.FinalAmount,
			).Scan(&created.ID, &created.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}

			for i, item := range order.Items {
				expected := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
				if !item.TotalPrice.Equal(expected) {
					return fmt.Errorf("item %d: line total mismatch", i)
				}

				pUUID, err := uuid.Parse(item.ProductID)
				if err != nil {
					return fmt.Errorf("item %d: invalid product UUID: %w", i, err)
				}

				err = q.QueryRowContext(ctx, addOrderItem,
					created.ID, pUUID, item.Quantity, item.UnitPrice, item.TotalPrice,
				).Scan(&item.ID)
				if err != nil {
					return fmt.Errorf("failed to insert item %d: %w", i, err)
				}

				item.OrderID = created.ID
				created.Items = append(created.Items, item)
			}
			return nil
		})
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

// FindByUserID loads every order with its items in one joined query,
// newest order first.
func (r *OrderRepo) FindByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order

	err := store.Observe(ctx, store.Orders, "find_by_user", func(ctx context.Context) error {
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return err
		}

		rows, err := r.db.QueryContext(ctx, findOrdersByUser, userUUID)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]domain.Order, 0)
		for rows.Next() {
			var (
				o          domain.Order
				method     string
				itemID     sql.NullString
				productID  sql.NullString
				quantity   sql.NullInt64
				unitPrice  decimal.NullDecimal
				totalPrice decimal.NullDecimal
				name       sql.NullString
				category   sql.NullString
			)
			if err := rows.Scan(
				&o.ID, &o.UserID, &o.Status, &method, &o.TotalAmount, &o.DiscountAmount,
				&o.FinalAmount, &o.CreatedAt,
				&itemID, &productID, &quantity, &unitPrice, &totalPrice, &name, &category,
			); err != nil {
				return err
			}
			o.PaymentMethod = domain.PaymentMethod(method)

			if n := len(out); n == 0 || out[n-1].ID != o.ID {
				o.Items = make([]domain.OrderItem, 0)
				out = append(out, o)
			}
			if !itemID.Valid {
				continue
			}

			last := &out[len(out)-1]
			last.Items = append(last.Items, domain.OrderItem{
				ID:         itemID.String,
				OrderID:    o.ID,
				ProductID:  productID.String,
				Name:       name.String,
				Category:   category.String,
				Quantity:   int(quantity.Int64),
				UnitPrice:  unitPrice.Decimal,
				TotalPrice: totalPrice.Decimal,
			})
		}
		return rows.Err()
	})
	return out, err
}
