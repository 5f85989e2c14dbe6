package models

import "github.com/shopspring/decimal"

// CatalogStats carries the KPI numbers for the catalog dashboard.
type CatalogStats struct {
	TotalProducts      int64           `json:"totalProducts"`
	TotalCategories    int64           `json:"totalCategories"`
	LowStockCount      int64           `json:"lowStockCount"`
	InventoryValuation decimal.Decimal `json:"inventoryValuation"`
	TotalOrders        int64           `json:"totalOrders"`
	OrderRevenue       decimal.Decimal `json:"orderRevenue"`
}
