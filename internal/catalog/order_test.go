package catalog

import (
	"math"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var orderItemColumns = []string{
	"id", "order_id", "product_id", "quantity", "price", "created_at", "updated_at", "product_name",
}

// --- Categories ---

func (s *ServiceTestSuite) TestCreateCategory_DerivesSlug() {
	s.mock.ExpectExec(q("INSERT INTO categories (name, slug, created_at, updated_at) VALUES (?, ?, ?, ?)")).
		WithArgs("Outdoor Gear", "outdoor-gear", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(3, 1))

	c, err := s.svc.CreateCategory(s.ctx, CreateCategoryInput{Name: " Outdoor Gear "})
	require.NoError(s.T(), err)
	require.Equal(s.T(), int64(3), c.ID)
	require.Equal(s.T(), "outdoor-gear", c.Slug)
}

func (s *ServiceTestSuite) TestCreateCategory_DuplicateIsValidationError() {
	s.mock.ExpectExec(q("INSERT INTO categories")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'electronics'"})

	_, err := s.svc.CreateCategory(s.ctx, CreateCategoryInput{Name: "Electronics"})

	var verr *ValidationError
	require.ErrorAs(s.T(), err, &verr)
	require.Equal(s.T(), "has already been taken", verr.Fields["name"])
}

func (s *ServiceTestSuite) TestCreateCategory_RequiresName() {
	_, err := s.svc.CreateCategory(s.ctx, CreateCategoryInput{Name: ""})
	require.True(s.T(), IsValidation(err))
}

func (s *ServiceTestSuite) TestListCategories_IncludesProductCounts() {
	s.mock.ExpectQuery(q("LEFT JOIN products p ON p.category_id = c.id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at", "count"}).
			AddRow(1, "Electronics", "electronics", fixedNow, fixedNow, 2).
			AddRow(2, "Home", "home", fixedNow, fixedNow, 0))

	categories, err := s.svc.ListCategories(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), categories, 2)
	require.Equal(s.T(), int64(2), categories[0].ProductCount)
	require.Equal(s.T(), int64(0), categories[1].ProductCount)
}

func (s *ServiceTestSuite) TestDeleteCategory_MissingIsNotFound() {
	s.mock.ExpectExec(q("DELETE FROM categories WHERE id = ?")).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.True(s.T(), IsNotFound(s.svc.DeleteCategory(s.ctx, 8)))
}

// --- Orders ---

func (s *ServiceTestSuite) TestCreateOrder_SnapshotsPricesAndSumsTotal() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("SELECT price FROM products WHERE id = ?")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("19.99"))
	s.mock.ExpectQuery(q("SELECT price FROM products WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("5.50"))
	s.mock.ExpectExec(q("INSERT INTO orders (customer_name, total_amount, created_at, updated_at)")).
		WithArgs("Ada", "45.48", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(4, 1))
	s.mock.ExpectExec(q("INSERT INTO order_items")).
		WithArgs(int64(4), int64(1), 2, "19.99", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(10, 1))
	s.mock.ExpectExec(q("INSERT INTO order_items")).
		WithArgs(int64(4), int64(2), 1, "5.5", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(11, 1))
	s.mock.ExpectQuery(q("FROM orders WHERE id = ?")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "total_amount", "created_at", "updated_at"}).
			AddRow(4, "Ada", "45.48", fixedNow, fixedNow))
	s.mock.ExpectQuery(q("FROM order_items oi")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(orderItemColumns).
			AddRow(10, 4, 1, 2, "19.99", fixedNow, fixedNow, "Speaker").
			AddRow(11, 4, 2, 1, "5.50", fixedNow, fixedNow, "Cable"))
	s.mock.ExpectCommit()

	order, err := s.svc.CreateOrder(s.ctx, CreateOrderInput{
		CustomerName: "Ada",
		Items: []OrderItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.NoError(s.T(), err)
	require.True(s.T(), order.TotalAmount.Equal(decimal.RequireFromString("45.48")))
	require.Len(s.T(), order.Items, 2)
	require.True(s.T(), order.Items[0].Subtotal().Equal(decimal.RequireFromString("39.98")))
	require.Equal(s.T(), "Cable", *order.Items[1].ProductName)
}

func (s *ServiceTestSuite) TestCreateOrder_UnknownProductWritesNothing() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("SELECT price FROM products WHERE id = ?")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}))
	s.mock.ExpectRollback()

	_, err := s.svc.CreateOrder(s.ctx, CreateOrderInput{
		CustomerName: "Ada",
		Items:        []OrderItemInput{{ProductID: 99, Quantity: 1}},
	})

	var verr *ValidationError
	require.ErrorAs(s.T(), err, &verr)
	require.Contains(s.T(), verr.Fields, "items[0].product_id")
}

func (s *ServiceTestSuite) TestCreateOrder_ValidatesLines() {
	_, err := s.svc.CreateOrder(s.ctx, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: 1, Quantity: 0}},
	})

	var verr *ValidationError
	require.ErrorAs(s.T(), err, &verr)
	require.Equal(s.T(), "is required", verr.Fields["customer_name"])
	require.Contains(s.T(), verr.Fields, "items[0].quantity")
}

func (s *ServiceTestSuite) TestCreateOrder_RejectsQuantityAboveInt32() {
	_, err := s.svc.CreateOrder(s.ctx, CreateOrderInput{
		CustomerName: "Ada",
		Items:        []OrderItemInput{{ProductID: 1, Quantity: 2147483648}},
	})

	var verr *ValidationError
	require.ErrorAs(s.T(), err, &verr)
	require.Equal(s.T(), "must not be greater than 2147483647", verr.Fields["items[0].quantity"])
}

func (s *ServiceTestSuite) TestCreateOrder_TotalAboveColumnRangeWritesNothing() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("SELECT price FROM products WHERE id = ?")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("99999999.99"))
	s.mock.ExpectRollback()

	_, err := s.svc.CreateOrder(s.ctx, CreateOrderInput{
		CustomerName: "Ada",
		Items:        []OrderItemInput{{ProductID: 1, Quantity: 2}},
	})

	var verr *ValidationError
	require.ErrorAs(s.T(), err, &verr)
	require.Contains(s.T(), verr.Fields, "items")
}

func (s *ServiceTestSuite) TestAddOrderItem_TranslatesOutOfRangeFromMySQL() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("SELECT 1 FROM orders WHERE id = ?")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	s.mock.ExpectQuery(q("SELECT price FROM products WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("5.50"))
	s.mock.ExpectExec(q("INSERT INTO order_items")).
		WillReturnError(&mysql.MySQLError{Number: 1264, Message: "Out of range value for column 'quantity' at row 1"})
	s.mock.ExpectRollback()

	_, err := s.svc.AddOrderItem(s.ctx, 4, OrderItemInput{ProductID: 2, Quantity: 3})

	var verr *ValidationError
	require.ErrorAs(s.T(), err, &verr)
	require.Equal(s.T(), "is out of range", verr.Fields["quantity"])
}

func (s *ServiceTestSuite) TestAddOrderItem_MissingOrderIsNotFound() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("SELECT 1 FROM orders WHERE id = ?")).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	s.mock.ExpectRollback()

	_, err := s.svc.AddOrderItem(s.ctx, 77, OrderItemInput{ProductID: 1, Quantity: 1})
	require.True(s.T(), IsNotFound(err))
}

func (s *ServiceTestSuite) TestAddOrderItem_RaisesTotal() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("SELECT 1 FROM orders WHERE id = ?")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	s.mock.ExpectQuery(q("SELECT price FROM products WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("5.50"))
	s.mock.ExpectExec(q("INSERT INTO order_items")).
		WithArgs(int64(4), int64(2), 3, "5.5", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(12, 1))
	s.mock.ExpectExec(q("UPDATE orders SET total_amount = total_amount + ?, updated_at = ? WHERE id = ?")).
		WithArgs("16.5", fixedNow, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery(q("FROM orders WHERE id = ?")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "total_amount", "created_at", "updated_at"}).
			AddRow(4, "Ada", "16.50", fixedNow, fixedNow))
	s.mock.ExpectQuery(q("FROM order_items oi")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(orderItemColumns).
			AddRow(12, 4, 2, 3, "5.50", fixedNow, fixedNow, "Cable"))
	s.mock.ExpectCommit()

	order, err := s.svc.AddOrderItem(s.ctx, 4, OrderItemInput{ProductID: 2, Quantity: 3})
	require.NoError(s.T(), err)
	require.Len(s.T(), order.Items, 1)
}

func (s *ServiceTestSuite) TestGetOrder_DeletedProductKeepsLine() {
	s.mock.ExpectQuery(q("FROM orders WHERE id = ?")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "total_amount", "created_at", "updated_at"}).
			AddRow(4, "Ada", "19.99", fixedNow, fixedNow))
	s.mock.ExpectQuery(q("FROM order_items oi")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(orderItemColumns).
			AddRow(10, 4, nil, 1, "19.99", fixedNow, fixedNow, nil))

	order, err := s.svc.GetOrder(s.ctx, 4)
	require.NoError(s.T(), err)
	require.Nil(s.T(), order.Items[0].ProductID)
	require.Nil(s.T(), order.Items[0].ProductName)
	require.True(s.T(), order.Items[0].Price.Equal(decimal.RequireFromString("19.99")))
}

func (s *ServiceTestSuite) TestListOrders_Paginates() {
	s.mock.ExpectQuery(q("SELECT COUNT(*) FROM orders")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	s.mock.ExpectQuery(q("ORDER BY created_at DESC, id DESC")).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "total_amount", "created_at", "updated_at"}).
			AddRow(1, "Grace", "12.00", fixedNow, fixedNow))

	orders, total, err := s.svc.ListOrders(s.ctx, 2, 0)
	require.NoError(s.T(), err)
	require.Equal(s.T(), int64(11), total)
	require.Len(s.T(), orders, 1)
}

func (s *ServiceTestSuite) TestListOrders_ClampsHugePage() {
	s.mock.ExpectQuery(q("SELECT COUNT(*) FROM orders")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	s.mock.ExpectQuery(q("ORDER BY created_at DESC, id DESC")).
		WithArgs(10, 2147483630).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "total_amount", "created_at", "updated_at"}))

	orders, _, err := s.svc.ListOrders(s.ctx, math.MaxInt, 0)
	require.NoError(s.T(), err)
	require.Empty(s.T(), orders)
}

func (s *ServiceTestSuite) TestDeleteOrder_MissingIsNotFound() {
	s.mock.ExpectExec(q("DELETE FROM orders WHERE id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.True(s.T(), IsNotFound(s.svc.DeleteOrder(s.ctx, 5)))
}

// --- Stats ---

func (s *ServiceTestSuite) TestStats_AggregatesAllTables() {
	s.mock.MatchExpectationsInOrder(false)
	s.mock.ExpectQuery(q("FROM products")).
		WithArgs(LowStockThreshold).
		WillReturnRows(sqlmock.NewRows([]string{"count", "low", "valuation"}).AddRow(50, 4, "12345.50"))
	s.mock.ExpectQuery(q("SELECT COUNT(*) FROM categories")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	s.mock.ExpectQuery(q("FROM orders")).
		WillReturnRows(sqlmock.NewRows([]string{"count", "revenue"}).AddRow(10, "999.90"))

	stats, err := s.svc.Stats(s.ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), int64(50), stats.TotalProducts)
	require.Equal(s.T(), int64(4), stats.LowStockCount)
	require.Equal(s.T(), int64(5), stats.TotalCategories)
	require.Equal(s.T(), int64(10), stats.TotalOrders)
	require.True(s.T(), stats.InventoryValuation.Equal(decimal.RequireFromString("12345.5")))
	require.True(s.T(), stats.OrderRevenue.Equal(decimal.RequireFromString("999.9")))
}
