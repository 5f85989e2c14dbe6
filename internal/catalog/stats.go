package catalog

import (
	"context"
	"fmt"

	"github.com/01moynul/shopsphere-golang/internal/models"
	"golang.org/x/sync/errgroup"
)

// LowStockThreshold is the stock level below which a product counts as low on stock.
const LowStockThreshold = 10

// Stats gathers the dashboard KPIs. The product and order aggregates are independent
// and run concurrently on the pool.
func (s *Service) Stats(ctx context.Context) (*models.CatalogStats, error) {
	var stats models.CatalogStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.db.QueryRowContext(gctx, `
			SELECT COUNT(*),
				COALESCE(SUM(CASE WHEN stock < ? THEN 1 ELSE 0 END), 0),
				COALESCE(SUM(price * stock), 0)
			FROM products`, LowStockThreshold,
		).Scan(&stats.TotalProducts, &stats.LowStockCount, &stats.InventoryValuation)
		if err != nil {
			return fmt.Errorf("product stats: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := s.db.QueryRowContext(gctx, "SELECT COUNT(*) FROM categories").Scan(&stats.TotalCategories); err != nil {
			return fmt.Errorf("category stats: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := s.db.QueryRowContext(gctx,
			"SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders",
		).Scan(&stats.TotalOrders, &stats.OrderRevenue)
		if err != nil {
			return fmt.Errorf("order stats: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
