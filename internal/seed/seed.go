// Package seed fills an empty catalog with demo data.
package seed

import (
	"context"
	"fmt"

	"github.com/01moynul/shopsphere-golang/internal/catalog"
	"github.com/01moynul/shopsphere-golang/internal/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	ProductsPerCategory = 10
	OrderCount          = 10
	ItemsPerOrder       = 3
)

// CategoryNames are the seeded categories, one per slug.
var CategoryNames = []string{"Electronics", "Home & Kitchen", "Books", "Sports", "Toys"}

// Store is the part of the catalog service the seeder writes through,
// so demo rows pass the same validation as API writes.
type Store interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, in catalog.CreateCategoryInput) (*models.Category, error)
	CreateProduct(ctx context.Context, in catalog.CreateProductInput) (*models.Product, error)
	CreateOrder(ctx context.Context, in catalog.CreateOrderInput) (*models.Order, error)
}

// Summary counts what Run created.
type Summary struct {
	Categories int
	Products   int
	Orders     int
}

// Run seeds categories with products and details, then orders with items.
// It does nothing when any category already exists. The same seed value yields the same data.
func Run(ctx context.Context, store Store, log zerolog.Logger, seed uint64) (Summary, error) {
	var summary Summary

	existing, err := store.ListCategories(ctx)
	if err != nil {
		return summary, fmt.Errorf("check existing categories: %w", err)
	}
	if len(existing) > 0 {
		log.Info().Int("categories", len(existing)).Msg("catalog already has data, skipping seed")
		return summary, nil
	}

	faker := gofakeit.New(seed)
	var productIDs []int64

	// 1. --- Categories with products and details ---
	for _, name := range CategoryNames {
		category, err := store.CreateCategory(ctx, catalog.CreateCategoryInput{Name: name})
		if err != nil {
			return summary, fmt.Errorf("seed category %q: %w", name, err)
		}
		summary.Categories++

		for i := 0; i < ProductsPerCategory; i++ {
			product, err := store.CreateProduct(ctx, fakeProduct(faker, category.ID))
			if err != nil {
				return summary, fmt.Errorf("seed product in %q: %w", name, err)
			}
			productIDs = append(productIDs, product.ID)
			summary.Products++
		}
	}

	// 2. --- Orders with items ---
	for i := 0; i < OrderCount; i++ {
		in := catalog.CreateOrderInput{CustomerName: faker.Name()}
		for j := 0; j < ItemsPerOrder; j++ {
			in.Items = append(in.Items, catalog.OrderItemInput{
				ProductID: productIDs[faker.Number(0, len(productIDs)-1)],
				Quantity:  faker.Number(1, 5),
			})
		}
		if _, err := store.CreateOrder(ctx, in); err != nil {
			return summary, fmt.Errorf("seed order %d: %w", i+1, err)
		}
		summary.Orders++
	}

	log.Info().
		Int("categories", summary.Categories).
		Int("products", summary.Products).
		Int("orders", summary.Orders).
		Msg("demo data seeded")
	return summary, nil
}

func fakeProduct(faker *gofakeit.Faker, categoryID int64) catalog.CreateProductInput {
	description := faker.Sentence(10)
	price := decimal.NewFromFloat(faker.Price(10, 100)).Round(2)
	stock := faker.Number(1, 50)
	specifications := faker.Sentence(20)
	manufacturer := faker.Company()

	return catalog.CreateProductInput{
		Name:        faker.ProductName(),
		Description: &description,
		Price:       &price,
		Stock:       &stock,
		CategoryID:  &categoryID,
		Detail: &catalog.DetailInput{
			Specifications: &specifications,
			Manufacturer:   &manufacturer,
		},
	}
}
