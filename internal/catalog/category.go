package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/shopsphere-golang/internal/models"
	"github.com/gosimple/slug"
)

type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreateCategory stores a category under a slug derived from its name.
// Two names that slugify to the same value are treated as duplicates.
func (s *Service) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	categorySlug := slug.Make(in.Name)
	if categorySlug == "" {
		return nil, newValidationError("name", "must contain at least one letter or digit")
	}

	now := s.now()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (name, slug, created_at, updated_at) VALUES (?, ?, ?, ?)",
		in.Name, categorySlug, now, now,
	)
	if err != nil {
		if mysqlErrorNumber(err) == mysqlDuplicateEntry {
			return nil, newValidationError("name", "has already been taken")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read category id: %w", err)
	}

	s.log.Info().Int64("category_id", id).Str("slug", categorySlug).Msg("category created")
	return &models.Category{
		ID:        id,
		Name:      in.Name,
		Slug:      categorySlug,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ListCategories returns every category ordered by name, with its product count.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.created_at, c.updated_at, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name, c.slug, c.created_at, c.updated_at
		ORDER BY c.name ASC, c.id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id)
		FROM categories c
		WHERE c.id = ?`

	var c models.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt, &c.ProductCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "category", ID: id}
		}
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &c, nil
}

// DeleteCategory removes a category. Its products stay, with a null category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return &NotFoundError{Resource: "category", ID: id}
	}

	s.log.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}
