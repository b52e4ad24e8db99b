package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/dwikikusuma/storefront/internal/apperr"
	"github.com/dwikikusuma/storefront/internal/store"
)

const initialListStatus = "previous"

type ListRepo struct {
	s *Store
}

// FindByUserID returns the user's lists newest first. An empty status
// matches every list.
func (r *ListRepo) FindByUserID(ctx context.Context, userID, status string) ([]store.ShoppingListRecord, error) {
	var out []store.ShoppingListRecord
	err := store.Observe(ctx, store.ShoppingLists, "find_by_user", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(userID); err != nil {
			return err
		}

		r.s.mu.RLock()
		defer r.s.mu.RUnlock()

		rows := make([]listRow, 0)
		for _, row := range r.s.lists {
			if row.rec.UserID != userID {
				continue
			}
			if status != "" && row.rec.Status != status {
				continue
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].rec.CreatedAt.Equal(rows[j].rec.CreatedAt) {
				return rows[i].rec.CreatedAt.After(rows[j].rec.CreatedAt)
			}
			return rows[i].seq > rows[j].seq
		})

		out = make([]store.ShoppingListRecord, 0, len(rows))
		for _, row := range rows {
			out = append(out, row.rec)
		}
		return nil
	})
	return out, err
}

func (r *ListRepo) FindByID(ctx context.Context, listID string) (*store.ShoppingListRecord, error) {
	var out *store.ShoppingListRecord
	err := store.Observe(ctx, store.ShoppingLists, "find_by_id", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(listID); err != nil {
			return err
		}

		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
		if row, ok := r.s.lists[listID]; ok {
			rec := row.rec
			out = &rec
		}
		return nil
	})
	return out, err
}

func (r *ListRepo) Create(ctx context.Context, userID, name string) (store.ShoppingListRecord, error) {
	var out store.ShoppingListRecord
	err := store.Observe(ctx, store.ShoppingLists, "create", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(userID); err != nil {
			return err
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		now := r.s.now().UTC()
		out = store.ShoppingListRecord{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      name,
			Status:    initialListStatus,
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.s.lists[out.ID] = listRow{rec: out, seq: r.s.nextSeq()}
		return nil
	})
	return out, err
}

func (r *ListRepo) UpdateStatus(ctx context.Context, listID, from, to string) (bool, error) {
	var changed bool
	err := store.Observe(ctx, store.ShoppingLists, "update_status", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(listID); err != nil {
			return err
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		row, ok := r.s.lists[listID]
		if !ok || row.rec.Status != from {
			return nil
		}
		row.rec.Status = to
		row.rec.UpdatedAt = r.s.now().UTC()
		r.s.lists[listID] = row
		changed = true
		return nil
	})
	return changed, err
}

// Delete removes the list and cascades to its items.
func (r *ListRepo) Delete(ctx context.Context, listID string) error {
	return store.Observe(ctx, store.ShoppingLists, "delete", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(listID); err != nil {
			return err
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		delete(r.s.lists, listID)
		for id, item := range r.s.listItems {
			if item.rec.ListID == listID {
				delete(r.s.listItems, id)
			}
		}
		return nil
	})
}

func (r *ListRepo) FindItemsByListID(ctx context.Context, listID string) ([]store.ShoppingListItemRecord, error) {
	var out []store.ShoppingListItemRecord
	err := store.Observe(ctx, store.ShoppingListItems, "find_by_list", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(listID); err != nil {
			return err
		}

		r.s.mu.RLock()
		defer r.s.mu.RUnlock()

		rows := make([]listItemRow, 0)
		for _, item := range r.s.listItems {
			if item.rec.ListID == listID {
				rows = append(rows, item)
			}
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

		out = make([]store.ShoppingListItemRecord, 0, len(rows))
		for _, row := range rows {
			rec := row.rec
			rec.Product = r.s.productPtr(rec.ProductID)
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// AddItem upserts on (list, product); an existing row takes the new quantity.
func (r *ListRepo) AddItem(ctx context.Context, listID, productID string, quantity int) error {
	return store.Observe(ctx, store.ShoppingListItems, "add", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(listID, productID); err != nil {
			return err
		}
		if quantity < 1 {
			return errQuantity
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		if _, ok := r.s.lists[listID]; !ok {
			return foreignKeyViolation("shopping_list_items", "list_id")
		}
		if _, ok := r.s.products[productID]; !ok {
			return foreignKeyViolation("shopping_list_items", "product_id")
		}

		for id, item := range r.s.listItems {
			if item.rec.ListID == listID && item.rec.ProductID == productID {
				item.rec.Quantity = quantity
				r.s.listItems[id] = item
				return nil
			}
		}

		rec := store.ShoppingListItemRecord{
			ID:        uuid.NewString(),
			ListID:    listID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: r.s.now().UTC(),
		}
		r.s.listItems[rec.ID] = listItemRow{rec: rec, seq: r.s.nextSeq()}
		return nil
	})
}

func (r *ListRepo) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (string, error) {
	var listID string
	err := store.Observe(ctx, store.ShoppingListItems, "update_quantity", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(itemID); err != nil {
			return err
		}
		if quantity < 1 {
			return errQuantity
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		item, ok := r.s.listItems[itemID]
		if !ok {
			return fmt.Errorf("list item %s: %w", itemID, apperr.ErrNotFound)
		}
		item.rec.Quantity = quantity
		r.s.listItems[itemID] = item
		listID = item.rec.ListID
		return nil
	})
	return listID, err
}

func (r *ListRepo) RemoveItem(ctx context.Context, itemID string) (string, error) {
	var listID string
	err := store.Observe(ctx, store.ShoppingListItems, "remove", func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkUUID(itemID); err != nil {
			return err
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		item, ok := r.s.listItems[itemID]
		if !ok {
			return fmt.Errorf("list item %s: %w", itemID, apperr.ErrNotFound)
		}
		delete(r.s.listItems, itemID)
		listID = item.rec.ListID
		return nil
	})
	return listID, err
}
