package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/dwikikusuma/storefront/internal/store"
	"github.com/dwikikusuma/storefront/pkg/postgres"
)

var findCartByUser = `SELECT c.id, c.user_id, c.quantity, c.added_at, ` + store.ProductColumns("p") + `
FROM cart c
JOIN products p ON p.id = c.product_id
WHERE c.user_id = $1
ORDER BY c.added_at, c.id`

const (
	upsertCartItem = `INSERT INTO cart (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id)
DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity`

	setCartQuantity = `UPDATE cart SET quantity = $3 WHERE user_id = $1 AND product_id = $2`

	removeCartItem = `DELETE FROM cart WHERE user_id = $1 AND product_id = $2`

	clearCart = `DELETE FROM cart WHERE user_id = $1`
)

type CartRepo struct {
	db postgres.DBTX
}

func NewCartRepo(db postgres.DBTX) *CartRepo {
	return &CartRepo{db: db}
}

func (r *CartRepo) FindByUserID(ctx context.Context, userID string) ([]store.CartRecord, error) {
	var out []store.CartRecord
	err := store.Observe(ctx, store.Cart, "find_by_user", func(ctx context.Context) error {
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return err
		}

		rows, err := r.db.QueryContext(ctx, findCartByUser, userUUID)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]store.CartRecord, 0)
		for rows.Next() {
			var (
				rec store.CartRecord
				p   store.ProductRecord
			)
			dest := append([]any{&rec.ID, &rec.UserID, &rec.Quantity, &rec.AddedAt}, p.ScanTargets()...)
			if err := rows.Scan(dest...); err != nil {
				return err
			}
			rec.Product = &p
			out = append(out, rec)
		}
		return rows.Err()
	})
	return out, err
}

func (r *CartRepo) Upsert(ctx context.Context, userID, productID string, quantity int) error {
	return store.Observe(ctx, store.Cart, "upsert", func(ctx context.Context) error {
		return r.exec(ctx, upsertCartItem, userID, productID, quantity)
	})
}

func (r *CartRepo) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return store.Observe(ctx, store.Cart, "update_quantity", func(ctx context.Context) error {
		return r.exec(ctx, setCartQuantity, userID, productID, quantity)
	})
}

func (r *CartRepo) Remove(ctx context.Context, userID, productID string) error {
	return store.Observe(ctx, store.Cart, "remove", func(ctx context.Context) error {
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return err
		}
		productUUID, err := uuid.Parse(productID)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx, removeCartItem, userUUID, productUUID)
		return err
	})
}

func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	return store.Observe(ctx, store.Cart, "clear", func(ctx context.Context) error {
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx, clearCart, userUUID)
		return err
	})
}

func (r *CartRepo) exec(ctx context.Context, query, userID, productID string, quantity int) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, userUUID, productUUID, quantity)
	return err
}
