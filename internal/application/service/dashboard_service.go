package service

import (
	"context"
	"time"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	recentTransactionsLimit = 10
	dailyChartDays          = 7
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	store    repository.CollectionStore
	products *ProductService
	clock    Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store repository.CollectionStore, products *ProductService, clock Clock) *DashboardService {
	return &DashboardService{
		store:    store,
		products: products,
		clock:    clock,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalIncome         decimal.Decimal      `json:"totalIncome"`
	TotalExpense        decimal.Decimal      `json:"totalExpense"`
	Balance             decimal.Decimal      `json:"balance"`
	RecentTransactions  []entity.Transaction `json:"recentTransactions"`
	PendingReceivables  decimal.Decimal      `json:"pendingReceivables"`
	PendingCount        int                  `json:"pendingCount"`
	OverdueCount        int                  `json:"overdueCount"`
	TotalProducts       int                  `json:"totalProducts"`
	LowStockCount       int                  `json:"lowStockCount"`
	TotalSales          int                  `json:"totalSales"`
	DailyCashFlowPoints []DailyCashFlowPoint `json:"dailyCashFlow"`
}

// DailyCashFlowPoint is one day of the dashboard chart
type DailyCashFlowPoint struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// GetDashboardStats returns dashboard statistics over all recorded data
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := s.clock.now()

	ledger, err := LoadLedger(ctx, s.store)
	if err != nil {
		return nil, err
	}
	products, err := repository.LoadList[entity.Product](ctx, s.store, repository.CollectionProducts)
	if err != nil {
		return nil, err
	}

	transactions := ProjectTransactions(ledger, now)
	all := Summarize(transactions, DateRange{})

	stats := &DashboardStats{
		TotalIncome:   all.TotalIncome,
		TotalExpense:  all.TotalExpense,
		Balance:       all.Balance,
		TotalProducts: len(products),
		TotalSales:    len(ledger.Sales),
	}

	recent := transactions
	if len(recent) > recentTransactionsLimit {
		recent = recent[:recentTransactionsLimit]
	}
	stats.RecentTransactions = recent

	stats.PendingReceivables, stats.PendingCount = PendingTotal(ledger.Receivables)
	for i := range ledger.Receivables {
		if ledger.Receivables[i].IsOverdue(now) {
			stats.OverdueCount++
		}
	}

	for i := range products {
		if s.products.IsLowStock(&products[i]) {
			stats.LowStockCount++
		}
	}

	stats.DailyCashFlowPoints = dailyPoints(transactions, now, dailyChartDays)
	return stats, nil
}

// dailyPoints totals the last n days including today, oldest first
func dailyPoints(transactions []entity.Transaction, now time.Time, n int) []DailyCashFlowPoint {
	points := make([]DailyCashFlowPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		summary := Summarize(transactions, DateRange{From: &day})
		points = append(points, DailyCashFlowPoint{
			Date:    day.Format("2006-01-02"),
			Income:  summary.TotalIncome,
			Expense: summary.TotalExpense,
		})
	}
	return points
}
