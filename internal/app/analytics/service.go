package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/hanamise/storefront/internal/adapter/logger"
	"github.com/hanamise/storefront/internal/interfaces"
)

const (
	topProductLimit   = 5
	lowStockThreshold = 10
)

// Service computes the admin dashboard report. Pure aggregation arithmetic
// over the order and product lists; nothing here mutates state.
type Service struct {
	orders   interfaces.OrderRepository
	products interfaces.ProductRepository
	logger   logger.Logger
}

func NewService(orders interfaces.OrderRepository, products interfaces.ProductRepository, logger logger.Logger) *Service {
	return &Service{orders: orders, products: products, logger: logger}
}

// Stats returns the dashboard's headline counters over the whole store.
func (s *Service) Stats(ctx context.Context) (*interfaces.StoreStats, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &interfaces.StoreStats{
		TotalProducts: len(products),
		TotalOrders:   len(orders),
	}
	for _, p := range products {
		if p.Stock < lowStockThreshold {
			stats.LowStockProducts++
		}
	}
	for _, o := range orders {
		stats.TotalRevenue += o.Total
	}
	return stats, nil
}

func (s *Service) Report(ctx context.Context, period string, now time.Time) (*interfaces.AnalyticsReport, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	start := periodStart(period, now)

	report := &interfaces.AnalyticsReport{Period: period}

	dailySales := map[string]int64{}
	dailyOrders := map[string]int{}
	productSales := map[string]*interfaces.ProductSales{}

	for _, order := range orders {
		if order.CreatedAt.Before(start) {
			continue
		}

		report.TotalOrders++
		report.TotalRevenue += order.Total

		day := order.CreatedAt.Format("2006-01-02")
		dailySales[day] += order.Total
		dailyOrders[day]++

		for _, item := range order.Items {
			ps, ok := productSales[item.ProductID]
			if !ok {
				ps = &interfaces.ProductSales{ProductID: item.ProductID, Name: item.ProductName}
				productSales[item.ProductID] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue += item.Price * int64(item.Quantity)
		}
	}

	if report.TotalOrders > 0 {
		report.AverageOrderValue = float64(report.TotalRevenue) / float64(report.TotalOrders)
	}

	for day, sales := range dailySales {
		report.DailySales = append(report.DailySales, interfaces.DailySales{
			Date:   day,
			Sales:  sales,
			Orders: dailyOrders[day],
		})
	}
	sort.Slice(report.DailySales, func(i, j int) bool {
		return report.DailySales[i].Date < report.DailySales[j].Date
	})

	for _, ps := range productSales {
		report.TopProducts = append(report.TopProducts, *ps)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].Revenue > report.TopProducts[j].Revenue
	})
	if len(report.TopProducts) > topProductLimit {
		report.TopProducts = report.TopProducts[:topProductLimit]
	}

	counts, err := s.orders.CountByFulfillmentStatus(ctx)
	if err != nil {
		return nil, err
	}
	report.StatusCounts = counts

	return report, nil
}

func periodStart(period string, now time.Time) time.Time {
	switch period {
	case "24h":
		return now.AddDate(0, 0, -1)
	case "7d":
		return now.AddDate(0, 0, -7)
	case "30d":
		return now.AddDate(0, 0, -30)
	case "90d":
		return now.AddDate(0, 0, -90)
	case "1y":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -7)
	}
}
