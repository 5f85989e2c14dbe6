package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/shopsphere-golang/internal/models"
)

// SortColumns is the closed set of listing sort keys, in display order.
var SortColumns = []string{"id", "name", "price", "stock"}

// sortColumnSQL maps a public sort key to its SQL identifier.
// Caller input never reaches the ORDER BY clause except through this table.
var sortColumnSQL = map[string]string{
	"id":    "p.id",
	"name":  "p.name",
	"price": "p.price",
	"stock": "p.stock",
}

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListParams are the listing inputs. Zero values mean defaults:
// sort by id ascending, no filter, first page, configured page size.
type ListParams struct {
	SortColumn string
	SortOrder  string
	Query      string
	Page       int
	PageSize   int
}

const listingSelect = `
	SELECT p.id, p.name, p.description, p.price, p.stock, p.category_id,
		c.name, d.specifications, d.manufacturer
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN product_details d ON d.product_id = p.id`

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.stock, p.category_id, p.created_at, p.updated_at,
		c.name, d.id, d.specifications, d.manufacturer, d.created_at, d.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN product_details d ON d.product_id = p.id
	WHERE p.id = ?`

// ResolveSort validates the sort inputs and returns the SQL column and direction.
func ResolveSort(column, order string) (string, string, error) {
	column = strings.ToLower(strings.TrimSpace(column))
	if column == "" {
		column = "id"
	}
	sqlColumn, ok := sortColumnSQL[column]
	if !ok {
		return "", "", &SortColumnError{Column: column, Allowed: SortColumns}
	}

	order = strings.ToLower(strings.TrimSpace(order))
	switch order {
	case "", SortAsc:
		return sqlColumn, "ASC", nil
	case SortDesc:
		return sqlColumn, "DESC", nil
	default:
		return "", "", newValidationError("order", "must be one of asc, desc")
	}
}

// likePattern builds a case-insensitive substring pattern with LIKE wildcards escaped.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

// ListProducts returns one page of products joined with category and detail data,
// ordered by the requested column and filtered by an optional name/description substring.
// An empty query lists everything.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (*models.ProductPage, error) {
	// 1. --- Validate sort before touching the database ---
	column, direction, err := ResolveSort(params.SortColumn, params.SortOrder)
	if err != nil {
		return nil, err
	}

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	page := clampPage(params.Page, pageSize)

	// 2. --- Build the filter ---
	var where string
	var args []interface{}
	if q := strings.TrimSpace(params.Query); q != "" {
		where = " WHERE (LOWER(p.name) LIKE ? OR LOWER(COALESCE(p.description, '')) LIKE ?)"
		pattern := likePattern(q)
		args = append(args, pattern, pattern)
	}

	// 3. --- Count the filtered set ---
	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products p"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	// 4. --- Fetch the page ---
	query := listingSelect + where + fmt.Sprintf(" ORDER BY %s %s, p.id ASC LIMIT ? OFFSET ?", column, direction)
	pageArgs := append(append([]interface{}{}, args...), pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := []models.ProductListing{}
	for rows.Next() {
		var item models.ProductListing
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Stock,
			&item.CategoryID,
			&item.CategoryName,
			&item.Specifications,
			&item.Manufacturer,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	lastPage := int((total + int64(pageSize) - 1) / int64(pageSize))
	if lastPage < 1 {
		lastPage = 1
	}

	return &models.ProductPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		LastPage: lastPage,
	}, nil
}

// SearchProducts is the search-only entry point. A missing or blank query falls back
// to the full listing, the same as ListProducts; it never answers "no query provided".
func (s *Service) SearchProducts(ctx context.Context, params ListParams) (*models.ProductPage, error) {
	return s.ListProducts(ctx, params)
}

// GetProduct loads one product with its category name and detail.
func (s *Service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return getProduct(ctx, s.db, id)
}

func getProduct(ctx context.Context, q queryer, id int64) (*models.Product, error) {
	var p models.Product
	var detailID sql.NullInt64
	var detail models.ProductDetail
	var detailCreated, detailUpdated sql.NullTime

	err := q.QueryRowContext(ctx, productSelect, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.CategoryID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CategoryName,
		&detailID,
		&detail.Specifications,
		&detail.Manufacturer,
		&detailCreated,
		&detailUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "product", ID: id}
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}

	if detailID.Valid {
		detail.ID = detailID.Int64
		detail.ProductID = p.ID
		detail.CreatedAt = detailCreated.Time
		detail.UpdatedAt = detailUpdated.Time
		p.Detail = &detail
	}
	return &p, nil
}
