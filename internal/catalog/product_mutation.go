package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/shopsphere-golang/internal/models"
	"github.com/shopspring/decimal"
)

// --- Inputs ---

// DetailInput carries the optional one-to-one product detail fields.
type DetailInput struct {
	Specifications *string `json:"specifications"`
	Manufacturer   *string `json:"manufacturer" validate:"omitempty,max=255"`
}

// MaxPrice is the largest amount a DECIMAL(10,2) column holds.
var MaxPrice = decimal.RequireFromString("99999999.99")

// CreateProductInput is the full field set for a new product.
type CreateProductInput struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0,lte=99999999.99"`
	Stock       *int             `json:"stock" validate:"required,gte=0,lte=2147483647"`
	CategoryID  *int64           `json:"category_id" validate:"required,gt=0"`
	Detail      *DetailInput     `json:"detail"`
}

// UpdateProductInput is a partial update: absent keys are left untouched.
// A null or blank description clears it; null on name, price, stock or category_id is rejected.
type UpdateProductInput struct {
	Name        Optional[string]          `json:"name" validate:"omitempty,min=1,max=255"`
	Description Optional[string]          `json:"description"`
	Price       Optional[decimal.Decimal] `json:"price" validate:"omitempty,gte=0,lte=99999999.99"`
	Stock       Optional[int]             `json:"stock" validate:"omitempty,gte=0,lte=2147483647"`
	CategoryID  Optional[int64]           `json:"category_id" validate:"omitempty,gt=0"`
	Detail      *DetailInput              `json:"detail"`
}

// Empty reports whether the patch carries no fields at all.
func (in UpdateProductInput) Empty() bool {
	return !in.Name.Set && !in.Description.Set && !in.Price.Set &&
		!in.Stock.Set && !in.CategoryID.Set && in.Detail == nil
}

// description is the value to store for a provided description: nil for null or blank.
func (in UpdateProductInput) description() *string {
	if !in.Description.Present() {
		return nil
	}
	return trimmed(&in.Description.Value)
}

// ValidateCreate normalizes in (trimmed name, blank text to nil, price to cents)
// and checks every field constraint that does not need the database.
func ValidateCreate(in *CreateProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = trimmed(in.Description)
	if in.Price != nil {
		rounded := in.Price.Round(2)
		in.Price = &rounded
	}
	if in.Detail != nil {
		in.Detail.Specifications = trimmed(in.Detail.Specifications)
		in.Detail.Manufacturer = trimmed(in.Detail.Manufacturer)
	}
	return validateStruct(in)
}

// ValidateUpdate is ValidateCreate for a partial update: only provided fields are checked,
// and an explicit null on a required field fails as missing.
func ValidateUpdate(in *UpdateProductInput) error {
	if in.Name.Present() {
		in.Name.Value = strings.TrimSpace(in.Name.Value)
	}
	if in.Price.Present() {
		in.Price.Value = in.Price.Value.Round(2)
	}

	verr, err := validationErrors(validateStruct(in))
	if err != nil {
		return err
	}
	for field, null := range map[string]bool{
		"name":        in.Name.Null,
		"price":       in.Price.Null,
		"stock":       in.Stock.Null,
		"category_id": in.CategoryID.Null,
	} {
		if null {
			verr.add(field, "is required")
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}

// --- Create ---

// CreateProduct validates the full field set, checks the category exists and inserts the
// product (and its detail, when given) in one transaction.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	// 1. --- Field validation, category existence included ---
	verr, err := validationErrors(ValidateCreate(&in))
	if err != nil {
		return nil, err
	}
	if in.CategoryID != nil && *in.CategoryID > 0 {
		ok, err := exists(ctx, s.db, "SELECT 1 FROM categories WHERE id = ?", *in.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("check category: %w", err)
		}
		if !ok {
			verr.add("category_id", "does not reference an existing category")
		}
	}
	if !verr.empty() {
		return nil, verr
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create product: %w", err)
	}
	defer tx.Rollback()

	// 2. --- Insert product ---
	now := s.now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO products (name, description, price, stock, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Description, *in.Price, *in.Stock, *in.CategoryID, now, now,
	)
	if err != nil {
		return nil, s.translateWriteError("create product", err)
	}
	productID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read product id: %w", err)
	}

	// 3. --- Insert detail ---
	if in.Detail != nil {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO product_details (product_id, specifications, manufacturer, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			productID, in.Detail.Specifications, in.Detail.Manufacturer, now, now,
		)
		if err != nil {
			return nil, s.translateWriteError("create product detail", err)
		}
	}

	product, err := getProduct(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create product: %w", err)
	}

	s.log.Info().Int64("product_id", productID).Msg("product created")
	return product, nil
}

// --- Update ---

// UpdateProduct applies only the provided fields. The product must exist; each provided
// field is held to the create rules; nothing is written if any check fails.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in UpdateProductInput) (*models.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update product: %w", err)
	}
	defer tx.Rollback()

	// 1. --- Product must exist ---
	ok, err := exists(ctx, tx, "SELECT 1 FROM products WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !ok {
		return nil, &NotFoundError{Resource: "product", ID: id}
	}

	// 2. --- Field validation, category existence included ---
	verr, err := validationErrors(ValidateUpdate(&in))
	if err != nil {
		return nil, err
	}
	if in.CategoryID.Present() && in.CategoryID.Value > 0 {
		ok, err := exists(ctx, tx, "SELECT 1 FROM categories WHERE id = ?", in.CategoryID.Value)
		if err != nil {
			return nil, fmt.Errorf("check category: %w", err)
		}
		if !ok {
			verr.add("category_id", "does not reference an existing category")
		}
	}
	if !verr.empty() {
		return nil, verr
	}

	if in.Empty() {
		return getProduct(ctx, tx, id)
	}

	now := s.now()

	// 3. --- Dynamically Build UPDATE Query ---
	querySet := "updated_at = ?"
	queryArgs := []interface{}{now}

	if in.Name.Set {
		querySet += ", name = ?"
		queryArgs = append(queryArgs, in.Name.Value)
	}
	if in.Description.Set {
		querySet += ", description = ?"
		queryArgs = append(queryArgs, in.description())
	}
	if in.Price.Set {
		querySet += ", price = ?"
		queryArgs = append(queryArgs, in.Price.Value)
	}
	if in.Stock.Set {
		querySet += ", stock = ?"
		queryArgs = append(queryArgs, in.Stock.Value)
	}
	if in.CategoryID.Set {
		querySet += ", category_id = ?"
		queryArgs = append(queryArgs, in.CategoryID.Value)
	}
	queryArgs = append(queryArgs, id)

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("UPDATE products SET %s WHERE id = ?", querySet), queryArgs...); err != nil {
		return nil, s.translateWriteError("update product", err)
	}

	// 4. --- Upsert the detail columns that were sent ---
	if in.Detail != nil {
		if err := upsertDetail(ctx, tx, id, in.Detail, now); err != nil {
			return nil, s.translateWriteError("update product detail", err)
		}
	}

	product, err := getProduct(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update product: %w", err)
	}

	s.log.Info().Int64("product_id", id).Msg("product updated")
	return product, nil
}

// upsertDetail inserts the detail row or updates only the provided columns of the existing one.
func upsertDetail(ctx context.Context, q queryer, productID int64, d *DetailInput, now time.Time) error {
	var updates []string
	if d.Specifications != nil {
		updates = append(updates, "specifications = VALUES(specifications)")
	}
	if d.Manufacturer != nil {
		updates = append(updates, "manufacturer = VALUES(manufacturer)")
	}
	if len(updates) == 0 {
		return nil
	}
	updates = append(updates, "updated_at = VALUES(updated_at)")

	query := `
		INSERT INTO product_details (product_id, specifications, manufacturer, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE ` + strings.Join(updates, ", ")

	_, err := q.ExecContext(ctx, query, productID, trimmed(d.Specifications), trimmed(d.Manufacturer), now, now)
	return err
}

// --- Delete ---

// DeleteProduct removes a product by id; its detail row goes with it through the
// ON DELETE CASCADE foreign key.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return &NotFoundError{Resource: "product", ID: id}
	}

	s.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// Delete is DeleteProduct for an already loaded product.
func (s *Service) Delete(ctx context.Context, p *models.Product) error {
	if p == nil {
		return &NotFoundError{Resource: "product"}
	}
	return s.DeleteProduct(ctx, p.ID)
}

// translateWriteError turns constraint violations that raced past pre-validation into
// validation errors and wraps everything else.
func (s *Service) translateWriteError(op string, err error) error {
	switch mysqlErrorNumber(err) {
	case mysqlNoReferencedRow:
		return newValidationError("category_id", "does not reference an existing category")
	case mysqlDuplicateEntry:
		return newValidationError("detail", "product already has a detail record")
	case mysqlOutOfRange:
		return newValidationError(outOfRangeColumn(err), "is out of range")
	}
	return fmt.Errorf("%s: %w", op, err)
}
