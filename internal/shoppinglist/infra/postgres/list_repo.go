package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dwikikusuma/storefront/internal/apperr"
	"github.com/dwikikusuma/storefront/internal/store"
	"github.com/dwikikusuma/storefront/pkg/postgres"
)

const listColumns = `id, user_id, name, status, created_at, updated_at`

const (
	findListsByUser = `SELECT ` + listColumns + `
FROM shopping_lists
WHERE user_id = $1 AND ($2::text = '' OR status = $2::text)
ORDER BY created_at DESC, id`

	findListByID = `SELECT ` + listColumns + ` FROM shopping_lists WHERE id = $1`

	createList = `INSERT INTO shopping_lists (user_id, name, status)
VALUES ($1, $2, 'previous')
RETURNING ` + listColumns

	updateListStatus = `UPDATE shopping_lists
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2`

	deleteList = `DELETE FROM shopping_lists WHERE id = $1`

	addListItem = `INSERT INTO shopping_list_items (list_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (list_id, product_id)
DO UPDATE SET quantity = EXCLUDED.quantity`

	updateListItemQuantity = `UPDATE shopping_list_items SET quantity = $2 WHERE id = $1 RETURNING list_id`

	removeListItem = `DELETE FROM shopping_list_items WHERE id = $1 RETURNING list_id`
)

var findItemsByList = `SELECT i.id, i.list_id, i.product_id, i.quantity, i.created_at, ` + store.ProductColumns("p") + `
FROM shopping_list_items i
JOIN products p ON p.id = i.product_id
WHERE i.list_id = $1
ORDER BY i.created_at, i.id`

type ListRepo struct {
	db postgres.DBTX
}

func NewListRepo(db postgres.DBTX) *ListRepo {
	return &ListRepo{db: db}
}

func (r *ListRepo) FindByUserID(ctx context.Context, userID, status string) ([]store.ShoppingListRecord, error) {
	var out []store.ShoppingListRecord
	err := store.Observe(ctx, store.ShoppingLists, "find_by_user", func(ctx context.Context) error {
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return err
		}

		rows, err := r.db.QueryContext(ctx, findListsByUser, userUUID, status)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]store.ShoppingListRecord, 0)
		for rows.Next() {
			var rec store.ShoppingListRecord
			if err := scanList(rows, &rec); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	return out, err
}

func (r *ListRepo) FindByID(ctx context.Context, listID string) (*store.ShoppingListRecord, error) {
	var out *store.ShoppingListRecord
	err := store.Observe(ctx, store.ShoppingLists, "find_by_id", func(ctx context.Context) error {
		listUUID, err := uuid.Parse(listID)
		if err != nil {
			return err
		}

		var rec store.ShoppingListRecord
		err = scanList(r.db.QueryRowContext(ctx, findListByID, listUUID), &rec)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		out = &rec
		return nil
	})
	return out, err
}

func (r *ListRepo) Create(ctx context.Context, userID, name string) (store.ShoppingListRecord, error) {
	var out store.ShoppingListRecord
	err := store.Observe(ctx, store.ShoppingLists, "create", func(ctx context.Context) error {
		userUUID, err := uuid.Parse(userID)
		if err != nil {
			return err
		}
		return scanList(r.db.QueryRowContext(ctx, createList, userUUID, name), &out)
	})
	return out, err
}

func (r *ListRepo) UpdateStatus(ctx context.Context, listID, from, to string) (bool, error) {
	var changed bool
	err := store.Observe(ctx, store.ShoppingLists, "update_status", func(ctx context.Context) error {
		listUUID, err := uuid.Parse(listID)
		if err != nil {
			return err
		}

		res, err := r.db.ExecContext(ctx, updateListStatus, listUUID, from, to)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		changed = n > 0
		return nil
	})
	return changed, err
}

func (r *ListRepo) Delete(ctx context.Context, listID string) error {
	return store.Observe(ctx, store.ShoppingLists, "delete", func(ctx context.Context) error {
		listUUID, err := uuid.Parse(listID)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx, deleteList, listUUID)
		return err
	})
}

func (r *ListRepo) FindItemsByListID(ctx context.Context, listID string) ([]store.ShoppingListItemRecord, error) {
	var out []store.ShoppingListItemRecord
	err := store.Observe(ctx, store.ShoppingListItems, "find_by_list", func(ctx context.Context) error {
		listUUID, err := uuid.Parse(listID)
		if err != nil {
			return err
		}

		rows, err := r.db.QueryContext(ctx, findItemsByList, listUUID)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]store.ShoppingListItemRecord, 0)
		for rows.Next() {
			var (
				rec store.ShoppingListItemRecord
				p   store.ProductRecord
			)
			dest := append([]any{&rec.ID, &rec.ListID, &rec.ProductID, &rec.Quantity, &rec.CreatedAt}, p.ScanTargets()...)
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

func (r *ListRepo) AddItem(ctx context.Context, listID, productID string, quantity int) error {
	return store.Observe(ctx, store.ShoppingListItems, "add", func(ctx context.Context) error {
		listUUID, err := uuid.Parse(listID)
		if err != nil {
			return err
		}
		productUUID, err := uuid.Parse(productID)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx, addListItem, listUUID, productUUID, quantity)
		return err
	})
}

func (r *ListRepo) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (string, error) {
	var listID string
	err := store.Observe(ctx, store.ShoppingListItems, "update_quantity", func(ctx context.Context) error {
		var err error
		listID, err = r.returningListID(ctx, updateListItemQuantity, itemID, quantity)
		return err
	})
	return listID, err
}

func (r *ListRepo) RemoveItem(ctx context.Context, itemID string) (string, error) {
	var listID string
	err := store.Observe(ctx, store.ShoppingListItems, "remove", func(ctx context.Context) error {
		var err error
		listID, err = r.returningListID(ctx, removeListItem, itemID)
		return err
	})
	return listID, err
}

func (r *ListRepo) returningListID(ctx context.Context, query, itemID string, args ...any) (string, error) {
	itemUUID, err := uuid.Parse(itemID)
	if err != nil {
		return "", err
	}

	var listID string
	err = r.db.QueryRowContext(ctx, query, append([]any{itemUUID}, args...)...).Scan(&listID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("list item %s: %w", itemID, apperr.ErrNotFound)
	}
	return listID, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanList(row rowScanner, rec *store.ShoppingListRecord) error {
	return row.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
}
