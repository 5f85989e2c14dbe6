package handlers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/01moynul/shopsphere-golang/internal/catalog"
	"github.com/01moynul/shopsphere-golang/internal/models"
	"github.com/shopspring/decimal"
)

// memCatalog is an in-memory Catalog that applies the same input validation as the
// SQL-backed service.
type memCatalog struct {
	mu         sync.Mutex
	categories map[int64]*models.Category
	products   map[int64]*models.Product
	orders     map[int64]*models.Order
	nextID     map[string]int64
	pageSize   int

	// err, when set, is returned by every call.
	err error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		categories: map[int64]*models.Category{},
		products:   map[int64]*models.Product{},
		orders:     map[int64]*models.Order{},
		nextID:     map[string]int64{},
		pageSize:   10,
	}
}

func (m *memCatalog) id(kind string) int64 {
	m.nextID[kind]++
	return m.nextID[kind]
}

func invalid(field, reason string) error {
	return &catalog.ValidationError{Fields: map[string]string{field: reason}}
}

// fieldErrors returns the field failures in err, or an empty set to add to.
// Non-validation errors cannot come out of the pure validators.
func fieldErrors(err error) *catalog.ValidationError {
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return &catalog.ValidationError{Fields: map[string]string{}}
}

func (m *memCatalog) PageSize() int { return m.pageSize }

func (m *memCatalog) ListProducts(ctx context.Context, params catalog.ListParams) (*models.ProductPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	column, direction, err := catalog.ResolveSort(params.SortColumn, params.SortOrder)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(params.Query))
	items := []models.ProductListing{}
	for _, p := range m.products {
		desc := ""
		if p.Description != nil {
			desc = *p.Description
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(desc), q) {
			continue
		}
		listing := models.ProductListing{
			ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price, Stock: p.Stock,
			CategoryID: p.CategoryID, CategoryName: p.CategoryName,
		}
		if p.Detail != nil {
			listing.Specifications = p.Detail.Specifications
			listing.Manufacturer = p.Detail.Manufacturer
		}
		items = append(items, listing)
	}

	less := func(a, b models.ProductListing) int {
		switch column {
		case "p.name":
			return strings.Compare(a.Name, b.Name)
		case "p.price":
			return a.Price.Cmp(b.Price)
		case "p.stock":
			return a.Stock - b.Stock
		}
		return int(a.ID - b.ID)
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := less(items[i], items[j])
		if c == 0 {
			return items[i].ID < items[j].ID
		}
		if direction == "DESC" {
			return c > 0
		}
		return c < 0
	})

	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.PageSize
	if size <= 0 {
		size = m.pageSize
	}
	total := len(items)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	lastPage := (total + size - 1) / size
	if lastPage < 1 {
		lastPage = 1
	}

	return &models.ProductPage{
		Items: items[start:end], Total: int64(total), Page: page, PageSize: size, LastPage: lastPage,
	}, nil
}

func (m *memCatalog) SearchProducts(ctx context.Context, params catalog.ListParams) (*models.ProductPage, error) {
	return m.ListProducts(ctx, params)
}

func (m *memCatalog) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, &catalog.NotFoundError{Resource: "product", ID: id}
	}
	clone := *p
	return &clone, nil
}

func (m *memCatalog) CreateProduct(ctx context.Context, in catalog.CreateProductInput) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	verr := fieldErrors(catalog.ValidateCreate(&in))
	var category *models.Category
	if in.CategoryID != nil {
		var ok bool
		if category, ok = m.categories[*in.CategoryID]; !ok {
			verr.Fields["category_id"] = "does not reference an existing category"
		}
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	p := &models.Product{
		ID:           m.id("product"),
		Name:         in.Name,
		Description:  in.Description,
		Price:        *in.Price,
		Stock:        *in.Stock,
		CategoryID:   in.CategoryID,
		CategoryName: &category.Name,
	}
	if in.Detail != nil {
		p.Detail = &models.ProductDetail{
			ID: m.id("detail"), ProductID: p.ID,
			Specifications: in.Detail.Specifications, Manufacturer: in.Detail.Manufacturer,
		}
	}
	m.products[p.ID] = p
	clone := *p
	return &clone, nil
}

func (m *memCatalog) UpdateProduct(ctx context.Context, id int64, in catalog.UpdateProductInput) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, &catalog.NotFoundError{Resource: "product", ID: id}
	}
	verr := fieldErrors(catalog.ValidateUpdate(&in))
	var category *models.Category
	if in.CategoryID.Present() {
		if category, ok = m.categories[in.CategoryID.Value]; !ok {
			verr.Fields["category_id"] = "does not reference an existing category"
		}
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	if in.Name.Set {
		p.Name = in.Name.Value
	}
	if in.Description.Set {
		desc := strings.TrimSpace(in.Description.Value)
		if in.Description.Null || desc == "" {
			p.Description = nil
		} else {
			p.Description = &desc
		}
	}
	if in.Price.Set {
		p.Price = in.Price.Value
	}
	if in.Stock.Set {
		p.Stock = in.Stock.Value
	}
	if category != nil {
		p.CategoryID = &category.ID
		p.CategoryName = &category.Name
	}
	clone := *p
	return &clone, nil
}

func (m *memCatalog) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[id]; !ok {
		return &catalog.NotFoundError{Resource: "product", ID: id}
	}
	delete(m.products, id)
	return nil
}

func (m *memCatalog) CreateCategory(ctx context.Context, in catalog.CreateCategoryInput) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	slug := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	for _, c := range m.categories {
		if c.Slug == slug {
			return nil, invalid("name", "has already been taken")
		}
	}
	c := &models.Category{ID: m.id("category"), Name: name, Slug: slug}
	m.categories[c.ID] = c
	clone := *c
	return &clone, nil
}

func (m *memCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Category{}
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCatalog) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, &catalog.NotFoundError{Resource: "category", ID: id}
	}
	clone := *c
	return &clone, nil
}

func (m *memCatalog) DeleteCategory(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return &catalog.NotFoundError{Resource: "category", ID: id}
	}
	delete(m.categories, id)
	for _, p := range m.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			p.CategoryName = nil
		}
	}
	return nil
}

func (m *memCatalog) CreateOrder(ctx context.Context, in catalog.CreateOrderInput) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, invalid("customer_name", "is required")
	}
	o := &models.Order{ID: m.id("order"), CustomerName: in.CustomerName, TotalAmount: decimal.Zero, Items: []models.OrderItem{}}
	for i, item := range in.Items {
		p, ok := m.products[item.ProductID]
		if !ok {
			return nil, invalid(fmt.Sprintf("items[%d].product_id", i), "does not reference an existing product")
		}
		m.appendItem(o, p, item.Quantity)
	}
	m.orders[o.ID] = o
	clone := *o
	return &clone, nil
}

func (m *memCatalog) appendItem(o *models.Order, p *models.Product, quantity int) {
	productID := p.ID
	name := p.Name
	line := models.OrderItem{
		ID: m.id("item"), OrderID: o.ID, ProductID: &productID, Quantity: quantity, Price: p.Price, ProductName: &name,
	}
	o.Items = append(o.Items, line)
	o.TotalAmount = o.TotalAmount.Add(line.Subtotal())
}

func (m *memCatalog) AddOrderItem(ctx context.Context, orderID int64, in catalog.OrderItemInput) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, &catalog.NotFoundError{Resource: "order", ID: orderID}
	}
	if in.Quantity <= 0 {
		return nil, invalid("quantity", "must be greater than 0")
	}
	p, ok := m.products[in.ProductID]
	if !ok {
		return nil, invalid("product_id", "does not reference an existing product")
	}
	m.appendItem(o, p, in.Quantity)
	clone := *o
	return &clone, nil
}

func (m *memCatalog) ListOrders(ctx context.Context, page, pageSize int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		summary := *o
		summary.Items = nil
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (m *memCatalog) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, &catalog.NotFoundError{Resource: "order", ID: id}
	}
	clone := *o
	return &clone, nil
}

func (m *memCatalog) DeleteOrder(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return &catalog.NotFoundError{Resource: "order", ID: id}
	}
	delete(m.orders, id)
	return nil
}

func (m *memCatalog) Stats(ctx context.Context) (*models.CatalogStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stats := &models.CatalogStats{
		TotalProducts:   int64(len(m.products)),
		TotalCategories: int64(len(m.categories)),
		TotalOrders:     int64(len(m.orders)),
	}
	for _, p := range m.products {
		if p.Stock < catalog.LowStockThreshold {
			stats.LowStockCount++
		}
		stats.InventoryValuation = stats.InventoryValuation.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	for _, o := range m.orders {
		stats.OrderRevenue = stats.OrderRevenue.Add(o.TotalAmount)
	}
	return stats, nil
}
