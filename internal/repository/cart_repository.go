package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/haichau/electrostore/internal/model"
)

// CartRepo persists cart lines keyed by (account, product). Every
// mutation that grows a quantity locks the product row first, so the
// invariant quantity <= stock_quantity holds even under concurrent
// writers to the same key.
type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// Lines returns all cart lines of an account joined with the product
// display fields. An empty cart yields an empty slice.
func (r *CartRepo) Lines(ctx context.Context, accountID uint64) ([]model.CartLine, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT ci.product_id, p.name, p.sell_price, p.discount_price, ci.quantity
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.account_id = ?
		 ORDER BY ci.created_at`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.SellPrice, &l.DiscountPrice, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Add merges quantity into the account's line for a product, creating
// the line when absent. The product row is locked for the duration of
// the transaction and the resulting quantity must not exceed stock;
// otherwise ErrInsufficientStock is returned and the prior quantity is
// left unchanged. A missing product yields ErrNotFound.
func (r *CartRepo) Add(ctx context.Context, accountID, productID uint64, quantity uint32) error {
	return r.mutate(ctx, accountID, productID, func(existing, stock uint32, found bool) (uint32, error) {
		next := existing + quantity
		if next > stock {
			return 0, ErrInsufficientStock
		}
		return next, nil
	})
}

// UpdateQuantity overwrites the quantity of an existing line. The new
// quantity is checked against stock the same way Add is; a line that
// does not exist yields ErrNotFound.
func (r *CartRepo) UpdateQuantity(ctx context.Context, accountID, productID uint64, quantity uint32) error {
	return r.mutate(ctx, accountID, productID, func(existing, stock uint32, found bool) (uint32, error) {
		if !found {
			return 0, ErrNotFound
		}
		if quantity > stock {
			return 0, ErrInsufficientStock
		}
		return quantity, nil
	})
}

// mutate runs the shared lock-check-write cycle: lock the product row,
// read the current line, let next decide the target quantity, then
// upsert it. next receives the existing quantity (0 when the line is
// absent), the locked stock value and whether the line exists.
func (r *CartRepo) mutate(ctx context.Context, accountID, productID uint64, next func(existing, stock uint32, found bool) (uint32, error)) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var stock uint32
	err = tx.QueryRowContext(ctx,
		"SELECT stock_quantity FROM products WHERE id=? FOR UPDATE",
		productID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var existing uint32
	found := true
	err = tx.QueryRowContext(ctx,
		"SELECT quantity FROM cart_items WHERE account_id=? AND product_id=? FOR UPDATE",
		accountID, productID).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		found, existing = false, 0
	} else if err != nil {
		return err
	}

	target, err := next(existing, stock, found)
	if err != nil {
		return err
	}

	if found {
		_, err = tx.ExecContext(ctx,
			"UPDATE cart_items SET quantity=? WHERE account_id=? AND product_id=?",
			target, accountID, productID)
	} else {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO cart_items (account_id, product_id, quantity) VALUES (?,?,?)",
			accountID, productID, target)
	}
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Remove deletes the line for (account, product). A missing line
// yields ErrNotFound and leaves the cart unchanged.
func (r *CartRepo) Remove(ctx context.Context, accountID, productID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE account_id=? AND product_id=?",
		accountID, productID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Clear deletes all lines of an account. Clearing an empty cart is a
// no-op, not an error.
func (r *CartRepo) Clear(ctx context.Context, accountID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE account_id=?", accountID)
	return err
}
