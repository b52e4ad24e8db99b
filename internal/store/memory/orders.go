package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/dwikikusuma/storefront/internal/order/domain"
	"github.com/dwikikusuma/storefront/internal/store"
)

type OrderRepo struct {
	s *Store
}

// CreateOrderTx stores the order and its items atomically: either every
// item is valid and the whole order lands, or nothing changes.
func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	var created domain.Order
	err := store.Observe(ctx, store.Orders, "create", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(order.UserID); err != nil {
			return err
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		created = order
		created.ID = uuid.NewString()
		created.CreatedAt = r.s.now().UTC()
		created.Items = make([]domain.OrderItem, 0, len(order.Items))

		for i, item := range order.Items {
			if !item.UnitPrice.Mul(intDecimal(item.Quantity)).Equal(item.TotalPrice) {
				return fmt.Errorf("item %d: line total mismatch", i)
			}
			if err := checkUUID(item.ProductID); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			if _, ok := r.s.products[item.ProductID]; !ok {
				return fmt.Errorf("item %d: %w", i, foreignKeyViolation("order_items", "product_id"))
			}

			item.ID = uuid.NewString()
			item.OrderID = created.ID
			created.Items = append(created.Items, item)
		}

		r.s.orders[created.ID] = orderRow{order: created, seq: r.s.nextSeq()}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return created, nil
}

// FindByUserID returns the user's orders newest first, each with its items.
func (r *OrderRepo) FindByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := store.Observe(ctx, store.Orders, "find_by_user", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(userID); err != nil {
			return err
		}

		r.s.mu.RLock()
		defer r.s.mu.RUnlock()

		rows := make([]orderRow, 0)
		for _, row := range r.s.orders {
			if row.order.UserID == userID {
				rows = append(rows, row)
			}
		}
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].order.CreatedAt.Equal(rows[j].order.CreatedAt) {
				return rows[i].order.CreatedAt.After(rows[j].order.CreatedAt)
			}
			return rows[i].seq > rows[j].seq
		})

		out = make([]domain.Order, 0, len(rows))
		for _, row := range rows {
			o := row.order
			o.Items = append([]domain.OrderItem(nil), o.Items...)
			for i := range o.Items {
				if p, ok := r.s.products[o.Items[i].ProductID]; ok {
					o.Items[i].Name = p.Name
					o.Items[i].Category = p.Category
				}
			}
			out = append(out, o)
		}
		return nil
	})
	return out, err
}
