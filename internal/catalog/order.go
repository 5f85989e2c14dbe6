package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/shopsphere-golang/internal/models"
	"github.com/shopspring/decimal"
)

type OrderItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0,lte=2147483647"`
}

type CreateOrderInput struct {
	CustomerName string           `json:"customer_name" validate:"required,max=255"`
	Items        []OrderItemInput `json:"items" validate:"dive"`
}

// pricedItem is an order line with the product price captured at order time.
type pricedItem struct {
	OrderItemInput
	Price decimal.Decimal
}

// priceItems looks up the current price of every line. Missing products are reported
// per line under keyPrefix, all at once, before anything is written.
func priceItems(ctx context.Context, q queryer, items []OrderItemInput, keyPrefix func(i int) string) ([]pricedItem, error) {
	priced := make([]pricedItem, 0, len(items))
	verr := &ValidationError{}

	for i, item := range items {
		var price decimal.Decimal
		err := q.QueryRowContext(ctx, "SELECT price FROM products WHERE id = ?", item.ProductID).Scan(&price)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				verr.add(keyPrefix(i)+"product_id", "does not reference an existing product")
				continue
			}
			return nil, fmt.Errorf("price product %d: %w", item.ProductID, err)
		}
		priced = append(priced, pricedItem{OrderItemInput: item, Price: price})
	}

	if !verr.empty() {
		return nil, verr
	}
	return priced, nil
}

func insertOrderItem(ctx context.Context, q queryer, orderID int64, item pricedItem, now time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		orderID, item.ProductID, item.Quantity, item.Price, now, now,
	)
	return err
}

// CreateOrder stores an order and its lines. Each line keeps the product price at order
// time and the order total is the sum of price x quantity. Stock is not touched.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	// 1. --- Field validation ---
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback()

	// 2. --- Snapshot prices ---
	items, err := priceItems(ctx, tx, in.Items, func(i int) string { return fmt.Sprintf("items[%d].", i) })
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if total.GreaterThan(MaxPrice) {
		return nil, newValidationError("items", "order total must not be greater than "+MaxPrice.StringFixed(2))
	}

	// 3. --- Insert order and lines ---
	now := s.now()
	result, err := tx.ExecContext(ctx,
		"INSERT INTO orders (customer_name, total_amount, created_at, updated_at) VALUES (?, ?, ?, ?)",
		in.CustomerName, total, now, now,
	)
	if err != nil {
		if mysqlErrorNumber(err) == mysqlOutOfRange {
			return nil, newValidationError("items", "order total is out of range")
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read order id: %w", err)
	}

	for _, item := range items {
		if err := insertOrderItem(ctx, tx, orderID, item, now); err != nil {
			return nil, s.translateOrderItemError(err)
		}
	}

	order, err := getOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create order: %w", err)
	}

	s.log.Info().Int64("order_id", orderID).Int("items", len(items)).Str("total", total.StringFixed(2)).Msg("order created")
	return order, nil
}

// AddOrderItem appends one line to an existing order and raises its total by the line subtotal.
func (s *Service) AddOrderItem(ctx context.Context, orderID int64, in OrderItemInput) (*models.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin add order item: %w", err)
	}
	defer tx.Rollback()

	ok, err := exists(ctx, tx, "SELECT 1 FROM orders WHERE id = ?", orderID)
	if err != nil {
		return nil, fmt.Errorf("check order: %w", err)
	}
	if !ok {
		return nil, &NotFoundError{Resource: "order", ID: orderID}
	}

	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	items, err := priceItems(ctx, tx, []OrderItemInput{in}, func(int) string { return "" })
	if err != nil {
		return nil, err
	}
	item := items[0]

	now := s.now()
	if err := insertOrderItem(ctx, tx, orderID, item, now); err != nil {
		return nil, s.translateOrderItemError(err)
	}

	subtotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET total_amount = total_amount + ?, updated_at = ? WHERE id = ?",
		subtotal, now, orderID,
	); err != nil {
		if mysqlErrorNumber(err) == mysqlOutOfRange {
			return nil, newValidationError("quantity", "would push the order total out of range")
		}
		return nil, fmt.Errorf("update order total: %w", err)
	}

	order, err := getOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add order item: %w", err)
	}

	s.log.Info().Int64("order_id", orderID).Int64("product_id", item.ProductID).Msg("order item added")
	return order, nil
}

// ListOrders returns one page of orders, newest first, without their lines, plus the total count.
func (s *Service) ListOrders(ctx context.Context, page, pageSize int) ([]models.Order, int64, error) {
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	page = clampPage(page, pageSize)

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_name, total_amount, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, total, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return getOrder(ctx, s.db, id)
}

func getOrder(ctx context.Context, q queryer, id int64) (*models.Order, error) {
	var o models.Order
	err := q.QueryRowContext(ctx,
		"SELECT id, customer_name, total_amount, created_at, updated_at FROM orders WHERE id = ?", id,
	).Scan(&o.ID, &o.CustomerName, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "order", ID: id}
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, oi.created_at, oi.updated_at, p.name
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("get order %d items: %w", id, err)
	}
	defer rows.Close()

	o.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.Price,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.ProductName,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}
	return &o, nil
}

// DeleteOrder removes an order; its lines go with it through ON DELETE CASCADE.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return &NotFoundError{Resource: "order", ID: id}
	}

	s.log.Info().Int64("order_id", id).Msg("order deleted")
	return nil
}

func (s *Service) translateOrderItemError(err error) error {
	switch mysqlErrorNumber(err) {
	case mysqlNoReferencedRow:
		return newValidationError("product_id", "does not reference an existing product")
	case mysqlOutOfRange:
		return newValidationError(outOfRangeColumn(err), "is out of range")
	}
	return fmt.Errorf("create order item: %w", err)
}
