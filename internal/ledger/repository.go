package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vitaleco/m/domain"
)

// repository runs ledger SQL against either the pool or a transaction.
type repository struct {
	q sqlx.ExtContext
}

const (
	orderColumns     = `id, date, supplier, total_amount, paid_amount`
	itemColumns      = `id, product, quantity, price, purchase_order_id`
	paymentColumns   = `id, amount, method, purchase_order_id`
	inventoryColumns = `id, product, quantity, last_price`
)

// Purchase orders

func (r repository) getOrder(ctx context.Context, id int64) (domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := sqlx.GetContext(ctx, r.q, &po, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return po, notFound("purchase order %d not found", id)
	}
	if err != nil {
		return po, fmt.Errorf("ledger: get purchase order %d: %w", id, err)
	}
	return po, nil
}

func (r repository) listOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	orders := []domain.PurchaseOrder{}
	if err := sqlx.SelectContext(ctx, r.q, &orders, `SELECT `+orderColumns+` FROM purchase_orders ORDER BY date DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("ledger: list purchase orders: %w", err)
	}
	return orders, nil
}

func (r repository) insertOrder(ctx context.Context, in OrderInput) (int64, error) {
	res, err := r.q.ExecContext(ctx, `INSERT INTO purchase_orders (date, supplier, total_amount, paid_amount) VALUES (?, ?, ?, 0)`,
		in.Date, in.Supplier, in.TotalAmount)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert purchase order: %w", err)
	}
	return res.LastInsertId()
}

func (r repository) upsertOrder(ctx context.Context, id int64, in OrderInput, paid float64) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO purchase_orders (id, date, supplier, total_amount, paid_amount) VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            date = excluded.date,
            supplier = excluded.supplier,
            total_amount = excluded.total_amount,
            paid_amount = excluded.paid_amount`,
		id, in.Date, in.Supplier, in.TotalAmount, paid)
	if err != nil {
		return fmt.Errorf("ledger: upsert purchase order %d: %w", id, err)
	}
	return nil
}

func (r repository) updateOrder(ctx context.Context, id int64, in OrderInput, paid float64) error {
	_, err := r.q.ExecContext(ctx, `UPDATE purchase_orders SET date = ?, supplier = ?, total_amount = ?, paid_amount = ? WHERE id = ?`,
		in.Date, in.Supplier, in.TotalAmount, paid, id)
	if err != nil {
		return fmt.Errorf("ledger: update purchase order %d: %w", id, err)
	}
	return nil
}

func (r repository) setPaidAmount(ctx context.Context, id int64, paid float64) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE purchase_orders SET paid_amount = ? WHERE id = ?`, paid, id); err != nil {
		return fmt.Errorf("ledger: set paid amount on %d: %w", id, err)
	}
	return nil
}

func (r repository) deleteOrder(ctx context.Context, id int64) error {
	stmts := []string{
		`DELETE FROM purchase_order_payments WHERE purchase_order_id = ?`,
		`DELETE FROM purchase_order_items WHERE purchase_order_id = ?`,
		`DELETE FROM purchase_orders WHERE id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := r.q.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("ledger: delete purchase order %d: %w", id, err)
		}
	}
	return nil
}

// Line items

func (r repository) listItems(ctx context.Context, orderID int64) ([]domain.LineItem, error) {
	items := []domain.LineItem{}
	if err := sqlx.SelectContext(ctx, r.q, &items, `SELECT `+itemColumns+` FROM purchase_order_items WHERE purchase_order_id = ? ORDER BY id`, orderID); err != nil {
		return nil, fmt.Errorf("ledger: list items of %d: %w", orderID, err)
	}
	return items, nil
}

func (r repository) getItem(ctx context.Context, orderID, itemID int64) (domain.LineItem, error) {
	var item domain.LineItem
	err := sqlx.GetContext(ctx, r.q, &item, `SELECT `+itemColumns+` FROM purchase_order_items WHERE id = ? AND purchase_order_id = ?`, itemID, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return item, notFound("line item %d not found on purchase order %d", itemID, orderID)
	}
	if err != nil {
		return item, fmt.Errorf("ledger: get item %d: %w", itemID, err)
	}
	return item, nil
}

func (r repository) insertItem(ctx context.Context, orderID int64, in ItemInput) (int64, error) {
	res, err := r.q.ExecContext(ctx, `INSERT INTO purchase_order_items (product, quantity, price, purchase_order_id) VALUES (?, ?, ?, ?)`,
		in.Product, in.Quantity, in.Price, orderID)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert item: %w", err)
	}
	return res.LastInsertId()
}

func (r repository) updateItem(ctx context.Context, orderID, itemID int64, in ItemInput) error {
	_, err := r.q.ExecContext(ctx, `UPDATE purchase_order_items SET product = ?, quantity = ?, price = ? WHERE id = ? AND purchase_order_id = ?`,
		in.Product, in.Quantity, in.Price, itemID, orderID)
	if err != nil {
		return fmt.Errorf("ledger: update item %d: %w", itemID, err)
	}
	return nil
}

func (r repository) deleteItem(ctx context.Context, orderID, itemID int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM purchase_order_items WHERE id = ? AND purchase_order_id = ?`, itemID, orderID); err != nil {
		return fmt.Errorf("ledger: delete item %d: %w", itemID, err)
	}
	return nil
}

// Payments

func (r repository) listPayments(ctx context.Context, orderID int64) ([]domain.Payment, error) {
	payments := []domain.Payment{}
	if err := sqlx.SelectContext(ctx, r.q, &payments, `SELECT `+paymentColumns+` FROM purchase_order_payments WHERE purchase_order_id = ? ORDER BY id`, orderID); err != nil {
		return nil, fmt.Errorf("ledger: list payments of %d: %w", orderID, err)
	}
	return payments, nil
}

func (r repository) getPayment(ctx context.Context, orderID, paymentID int64) (domain.Payment, error) {
	var p domain.Payment
	err := sqlx.GetContext(ctx, r.q, &p, `SELECT `+paymentColumns+` FROM purchase_order_payments WHERE id = ? AND purchase_order_id = ?`, paymentID, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return p, notFound("payment %d not found on purchase order %d", paymentID, orderID)
	}
	if err != nil {
		return p, fmt.Errorf("ledger: get payment %d: %w", paymentID, err)
	}
	return p, nil
}

func (r repository) insertPayment(ctx context.Context, orderID int64, in PaymentInput) (int64, error) {
	res, err := r.q.ExecContext(ctx, `INSERT INTO purchase_order_payments (amount, method, purchase_order_id) VALUES (?, ?, ?)`,
		in.Amount, in.Method, orderID)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert payment: %w", err)
	}
	return res.LastInsertId()
}

func (r repository) updatePayment(ctx context.Context, orderID, paymentID int64, in PaymentInput) error {
	_, err := r.q.ExecContext(ctx, `UPDATE purchase_order_payments SET amount = ?, method = ? WHERE id = ? AND purchase_order_id = ?`,
		in.Amount, in.Method, paymentID, orderID)
	if err != nil {
		return fmt.Errorf("ledger: update payment %d: %w", paymentID, err)
	}
	return nil
}

func (r repository) deletePayment(ctx context.Context, orderID, paymentID int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM purchase_order_payments WHERE id = ? AND purchase_order_id = ?`, paymentID, orderID); err != nil {
		return fmt.Errorf("ledger: delete payment %d: %w", paymentID, err)
	}
	return nil
}

func (r repository) sumPayments(ctx context.Context, orderID int64) (float64, error) {
	var sum float64
	err := sqlx.GetContext(ctx, r.q, &sum, `SELECT COALESCE(SUM(amount), 0) FROM purchase_order_payments WHERE purchase_order_id = ?`, orderID)
	if err != nil {
		return 0, fmt.Errorf("ledger: sum payments of %d: %w", orderID, err)
	}
	return sum, nil
}

// Inventory

func (r repository) findInventory(ctx context.Context, product string) (domain.InventoryEntry, bool, error) {
	var entry domain.InventoryEntry
	err := sqlx.GetContext(ctx, r.q, &entry, `SELECT `+inventoryColumns+` FROM inventory WHERE product = ?`, product)
	if errors.Is(err, sql.ErrNoRows) {
		return entry, false, nil
	}
	if err != nil {
		return entry, false, fmt.Errorf("ledger: find inventory %q: %w", product, err)
	}
	return entry, true, nil
}

func (r repository) listInventory(ctx context.Context) ([]domain.InventoryEntry, error) {
	entries := []domain.InventoryEntry{}
	if err := sqlx.SelectContext(ctx, r.q, &entries, `SELECT `+inventoryColumns+` FROM inventory ORDER BY product`); err != nil {
		return nil, fmt.Errorf("ledger: list inventory: %w", err)
	}
	return entries, nil
}

func (r repository) insertInventory(ctx context.Context, product string, qty int64, price float64) error {
	if _, err := r.q.ExecContext(ctx, `INSERT INTO inventory (product, quantity, last_price) VALUES (?, ?, ?)`, product, qty, price); err != nil {
		return fmt.Errorf("ledger: insert inventory %q: %w", product, err)
	}
	return nil
}

func (r repository) updateInventory(ctx context.Context, id, qty int64, price float64) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE inventory SET quantity = ?, last_price = ? WHERE id = ?`, qty, price, id); err != nil {
		return fmt.Errorf("ledger: update inventory %d: %w", id, err)
	}
	return nil
}

func (r repository) deleteInventory(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, id); err != nil {
		return fmt.Errorf("ledger: delete inventory %d: %w", id, err)
	}
	return nil
}
