package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/haichau/electrostore/internal/model"
)

// OrderRepo persists orders and their items. Checkout and
// cancellation run inside transactions because they move stock.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// ErrEmptyCart is returned by Checkout when the account has nothing
// in its cart.
var ErrEmptyCart = errors.New("cart is empty")

// OrderDetail is an order together with its items.
type OrderDetail struct {
	Order model.Order       `json:"order"`
	Items []model.OrderItem `json:"items"`
}

// newOrderCode returns a short unique order code like ORD-5F3A9C0D.
func newOrderCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "ORD-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

// Checkout converts the account's cart into an order in a single
// transaction: each product row is locked, stock is re-validated and
// decremented, the order and its items are inserted, and the cart is
// cleared. The customer pays the discount price when one is set.
// Stock that shrank since the line was added fails the whole checkout
// with ErrInsufficientStock.
func (r *OrderRepo) Checkout(ctx context.Context, accountID uint64, paymentMethod, shippingAddress, note *string) (OrderDetail, error) {
	var out OrderDetail
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the product rows together with the cart lines so stock
	// cannot move under the checkout.
	rows, err := tx.QueryContext(ctx,
		`SELECT ci.product_id, ci.quantity, p.stock_quantity, p.sell_price, p.discount_price
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.account_id = ?
		 ORDER BY ci.product_id
		 FOR UPDATE`,
		accountID)
	if err != nil {
		return out, err
	}
	type line struct {
		productID uint64
		quantity  uint32
		stock     uint32
		unitPrice float64
	}
	var lines []line
	for rows.Next() {
		var (
			l        line
			sell     float64
			discount sql.NullFloat64
		)
		if err := rows.Scan(&l.productID, &l.quantity, &l.stock, &sell, &discount); err != nil {
			rows.Close()
			return out, err
		}
		l.unitPrice = sell
		if discount.Valid {
			l.unitPrice = discount.Float64
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, err
	}
	if len(lines) == 0 {
		return out, ErrEmptyCart
	}

	var total float64
	for _, l := range lines {
		if l.quantity > l.stock {
			return out, ErrInsufficientStock
		}
		total += float64(l.quantity) * l.unitPrice
	}

	code, err := newOrderCode()
	if err != nil {
		return out, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (code, account_id, status, total_amount, payment_method, shipping_address, note)
		 VALUES (?,?,?,?,?,?,?)`,
		code, accountID, model.OrderPending, total, paymentMethod, shippingAddress, note)
	if err != nil {
		return out, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return out, err
	}

	for _, l := range lines {
		if _, err := tx.ExecContext(ctx,
			"UPDATE products SET stock_quantity = stock_quantity - ? WHERE id=?",
			l.quantity, l.productID); err != nil {
			return out, err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?,?,?,?)",
			uint64(orderID), l.productID, l.quantity, l.unitPrice); err != nil {
			return out, err
		}
		out.Items = append(out.Items, model.OrderItem{
			OrderID:   uint64(orderID),
			ProductID: l.productID,
			Quantity:  l.quantity,
			UnitPrice: l.unitPrice,
		})
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE account_id=?", accountID); err != nil {
		return out, err
	}
	if err := tx.Commit(); err != nil {
		return out, err
	}
	committed = true

	out.Order = model.Order{
		ID:              uint64(orderID),
		Code:            code,
		AccountID:       accountID,
		Status:          model.OrderPending,
		TotalAmount:     total,
		PaymentMethod:   paymentMethod,
		ShippingAddress: shippingAddress,
		Note:            note,
	}
	return out, nil
}

const orderColumns = "id,code,account_id,status,total_amount,payment_method,shipping_address,note,created_at,updated_at"

func scanOrderRows(rows *sql.Rows) (model.Order, error) {
	var o model.Order
	err := rows.Scan(&o.ID, &o.Code, &o.AccountID, &o.Status, &o.TotalAmount,
		&o.PaymentMethod, &o.ShippingAddress, &o.Note, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// ListByAccount returns all orders of an account, newest first.
func (r *OrderRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE account_id=? ORDER BY id DESC",
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Order
	for rows.Next() {
		o, err := scanOrderRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListAll returns one page of all orders for staff, newest first.
func (r *OrderRepo) ListAll(ctx context.Context, page, pageSize int) (Page[model.Order], error) {
	page, pageSize = pageBounds(page, pageSize)
	out := Page[model.Order]{PageNumber: page, PageSize: pageSize, Items: []model.Order{}}
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&out.TotalItems); err != nil {
		return out, err
	}
	out.TotalPages = (out.TotalItems + pageSize - 1) / pageSize
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY id DESC LIMIT ? OFFSET ?",
		pageSize, (page-1)*pageSize)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		o, err := scanOrderRows(rows)
		if err != nil {
			return out, err
		}
		out.Items = append(out.Items, o)
	}
	return out, rows.Err()
}

// Get fetches one order with its items.
func (r *OrderRepo) Get(ctx context.Context, id uint64) (OrderDetail, error) {
	var d OrderDetail
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=? LIMIT 1", id).
		Scan(&d.Order.ID, &d.Order.Code, &d.Order.AccountID, &d.Order.Status,
			&d.Order.TotalAmount, &d.Order.PaymentMethod, &d.Order.ShippingAddress,
			&d.Order.Note, &d.Order.CreatedAt, &d.Order.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	if err != nil {
		return d, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,order_id,product_id,quantity,unit_price FROM order_items WHERE order_id=?", id)
	if err != nil {
		return d, err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return d, err
		}
		d.Items = append(d.Items, it)
	}
	return d, rows.Err()
}

// validTransitions encodes the forward-only status machine; CANCELLED
// is reachable from any state that has not completed.
var validTransitions = map[string]map[string]bool{
	model.OrderPending:   {model.OrderConfirmed: true, model.OrderCancelled: true},
	model.OrderConfirmed: {model.OrderShipped: true, model.OrderCancelled: true},
	model.OrderShipped:   {model.OrderCompleted: true, model.OrderCancelled: true},
}

// UpdateStatus moves an order along the status machine. An invalid
// transition fails with ErrConflict. Cancelling restores the stock
// decremented at checkout, in the same transaction.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
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

	var current string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM orders WHERE id=? FOR UPDATE", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !validTransitions[current][status] {
		return fmt.Errorf("%w: cannot move order from %s to %s", ErrConflict, current, status)
	}

	if status == model.OrderCancelled {
		if _, err := tx.ExecContext(ctx,
			`UPDATE products p
			 JOIN order_items oi ON oi.product_id = p.id
			 SET p.stock_quantity = p.stock_quantity + oi.quantity
			 WHERE oi.order_id = ?`,
			id); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status=? WHERE id=?", status, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
