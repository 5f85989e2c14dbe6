package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the model for the 'products' table.
// Nullable columns are pointers so they serialize as null instead of zero values.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	CategoryID  *int64          `json:"categoryId" db:"category_id"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`

	// Joins (Not in DB table, populated manually)
	CategoryName *string        `json:"categoryName" db:"-"`
	Detail       *ProductDetail `json:"detail" db:"-"`
}

// ProductDetail is the model for the 'product_details' table (one row per product at most).
type ProductDetail struct {
	ID             int64     `json:"id" db:"id"`
	ProductID      int64     `json:"productId" db:"product_id"`
	Specifications *string   `json:"specifications" db:"specifications"`
	Manufacturer   *string   `json:"manufacturer" db:"manufacturer"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductListing is one row of the product table view: the product joined with its
// category name and detail fields. Missing joins stay nil; "N/A" is a display concern.
type ProductListing struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	CategoryID     *int64          `json:"categoryId"`
	CategoryName   *string         `json:"categoryName"`
	Specifications *string         `json:"specifications"`
	Manufacturer   *string         `json:"manufacturer"`
}

// ProductPage is one page of the listing plus the size of the whole filtered set.
type ProductPage struct {
	Items    []ProductListing `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	LastPage int              `json:"lastPage"`
}
