package handlers

import (
	"context"

	"github.com/01moynul/shopsphere-golang/internal/catalog"
	"github.com/01moynul/shopsphere-golang/internal/models"
	"github.com/rs/zerolog"
)

// ProductQueries is the read side of the product catalog.
type ProductQueries interface {
	ListProducts(ctx context.Context, params catalog.ListParams) (*models.ProductPage, error)
	SearchProducts(ctx context.Context, params catalog.ListParams) (*models.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// ProductMutations is the write side of the product catalog.
type ProductMutations interface {
	CreateProduct(ctx context.Context, in catalog.CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, in catalog.UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type Categories interface {
	CreateCategory(ctx context.Context, in catalog.CreateCategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type Orders interface {
	CreateOrder(ctx context.Context, in catalog.CreateOrderInput) (*models.Order, error)
	AddOrderItem(ctx context.Context, orderID int64, in catalog.OrderItemInput) (*models.Order, error)
	ListOrders(ctx context.Context, page, pageSize int) ([]models.Order, int64, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// Catalog is everything the HTTP layer needs. *catalog.Service satisfies it.
type Catalog interface {
	ProductQueries
	ProductMutations
	Categories
	Orders
	Stats(ctx context.Context) (*models.CatalogStats, error)
	PageSize() int
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Catalog Catalog
	Log     zerolog.Logger
}

func New(svc Catalog, log zerolog.Logger) *Handlers {
	return &Handlers{
		Catalog: svc,
		Log:     log.With().Str("component", "http").Logger(),
	}
}
