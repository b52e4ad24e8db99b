package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/dwikikusuma/storefront/internal/store"
)

var errQuantity = errors.New(`new row violates check constraint "quantity_positive"`)

type CartRepo struct {
	s *Store
}

// FindByUserID returns the user's cart rows joined with their products,
// oldest first.
func (r *CartRepo) FindByUserID(ctx context.Context, userID string) ([]store.CartRecord, error) {
	var out []store.CartRecord
	err := store.Observe(ctx, store.Cart, "find_by_user", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(userID); err != nil {
			return err
		}

		r.s.mu.RLock()
		defer r.s.mu.RUnlock()

		type seqRec struct {
			rec store.CartRecord
			seq uint64
		}
		rows := make([]seqRec, 0)
		for k, row := range r.s.cart {
			if k.userID != userID {
				continue
			}
			rows = append(rows, seqRec{
				rec: store.CartRecord{
					ID:       row.id,
					UserID:   k.userID,
					Quantity: row.quantity,
					AddedAt:  row.addedAt,
					Product:  r.s.productPtr(k.productID),
				},
				seq: row.seq,
			})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

		out = make([]store.CartRecord, 0, len(rows))
		for _, row := range rows {
			out = append(out, row.rec)
		}
		return nil
	})
	return out, err
}

// Upsert inserts a row or adds quantity to the existing (user, product) row.
func (r *CartRepo) Upsert(ctx context.Context, userID, productID string, quantity int) error {
	return store.Observe(ctx, store.Cart, "upsert", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(userID, productID); err != nil {
			return err
		}
		if quantity < 1 {
			return errQuantity
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		if _, ok := r.s.products[productID]; !ok {
			return foreignKeyViolation("cart", "product_id")
		}

		key := cartKey{userID: userID, productID: productID}
		if row, ok := r.s.cart[key]; ok {
			row.quantity += quantity
			r.s.cart[key] = row
			return nil
		}
		r.s.cart[key] = cartRow{
			id:       uuid.NewString(),
			quantity: quantity,
			addedAt:  r.s.now().UTC(),
			seq:      r.s.nextSeq(),
		}
		return nil
	})
}

// UpdateQuantity sets the quantity of an existing row. A missing row is
// not an error, matching an UPDATE that affects nothing.
func (r *CartRepo) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return store.Observe(ctx, store.Cart, "update_quantity", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(userID, productID); err != nil {
			return err
		}
		if quantity < 1 {
			return errQuantity
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		key := cartKey{userID: userID, productID: productID}
		if row, ok := r.s.cart[key]; ok {
			row.quantity = quantity
			r.s.cart[key] = row
		}
		return nil
	})
}

func (r *CartRepo) Remove(ctx context.Context, userID, productID string) error {
	return store.Observe(ctx, store.Cart, "remove", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(userID, productID); err != nil {
			return err
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		delete(r.s.cart, cartKey{userID: userID, productID: productID})
		return nil
	})
}

func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	return store.Observe(ctx, store.Cart, "clear", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(userID); err != nil {
			return err
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		for k := range r.s.cart {
			if k.userID == userID {
				delete(r.s.cart, k)
			}
		}
		return nil
	})
}
