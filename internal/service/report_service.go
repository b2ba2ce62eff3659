package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"brewpos/internal/model"
	"brewpos/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// topProductsLimit is how many rows the top products table carries.
	topProductsLimit = 10
	// trendDays is the length of the daily trend ending on the report's last day.
	trendDays = 7
)

type reportService struct {
	orderRepo repository.OrderRepository
	location  *time.Location
	logger    zerolog.Logger
}

// NewReportService creates a report service. Hours are bucketed in loc, the shop's local time.
func NewReportService(orderRepo repository.OrderRepository, loc *time.Location, logger zerolog.Logger) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{
		orderRepo: orderRepo,
		location:  loc,
		logger:    logger.With().Str("service", "report").Logger(),
	}
}

func (s *reportService) Summary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error) {
	orders, err := s.orderRepo.List(ctx, model.OrderFilter{
		Status: model.OrderStatusCompleted,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		s.logger.Error().Err(err).Time("from", from).Time("to", to).Msg("failed to load orders for report")
		return nil, fmt.Errorf("failed to build sales summary: %w", err)
	}

	summary := SummarizeSales(orders, s.location)
	summary.From = from
	summary.To = to

	trendStart, trendEnd := trendWindow(to, s.location)
	recent, err := s.orderRepo.List(ctx, model.OrderFilter{
		Status: model.OrderStatusCompleted,
		From:   &trendStart,
		To:     &trendEnd,
	})
	if err != nil {
		s.logger.Error().Err(err).Time("from", trendStart).Time("to", trendEnd).Msg("failed to load orders for sales trend")
		return nil, fmt.Errorf("failed to build sales trend: %w", err)
	}
	summary.SalesByDay = DailyTrend(recent, trendStart, trendDays, s.location)

	s.logger.Debug().
		Int("orders", summary.TotalOrders).
		Str("total_sales", summary.TotalSales.StringFixed(2)).
		Msg("sales summary built")

	return summary, nil
}

// SummarizeSales aggregates orders. Callers choose which orders count; this does no filtering.
func SummarizeSales(orders []model.Order, loc *time.Location) *model.SalesSummary {
	summary := &model.SalesSummary{
		TotalSales:        decimal.Zero,
		CashSales:         decimal.Zero,
		CardSales:         decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TopProducts:       []model.ProductSales{},
		SalesByHour:       []model.HourlySales{},
		SalesByDay:        []model.DailySales{},
	}

	products := make(map[string]*model.ProductSales)
	var hours [24]model.HourlySales

	for _, o := range orders {
		summary.TotalSales = summary.TotalSales.Add(o.Total)
		summary.TotalOrders++

		switch o.PaymentMethod {
		case model.PaymentCash:
			summary.CashSales = summary.CashSales.Add(o.Total)
		case model.PaymentCard:
			summary.CardSales = summary.CardSales.Add(o.Total)
		}

		h := o.CreatedAt.In(loc).Hour()
		hours[h].Sales = hours[h].Sales.Add(o.Total)
		hours[h].Orders++

		for _, line := range o.Items {
			ps, ok := products[line.Product.ID]
			if !ok {
				ps = &model.ProductSales{
					ProductID:   line.Product.ID,
					ProductName: line.Product.Name,
					Revenue:     decimal.Zero,
				}
				products[line.Product.ID] = ps
			}
			ps.QuantitySold += line.Quantity
			ps.Revenue = ps.Revenue.Add(line.TotalPrice)
		}
	}

	if summary.TotalOrders > 0 {
		summary.AverageOrderValue = summary.TotalSales.Div(decimal.NewFromInt(int64(summary.TotalOrders)))
	}

	for h := range hours {
		if hours[h].Orders == 0 {
			continue
		}
		hours[h].Hour = h
		summary.SalesByHour = append(summary.SalesByHour, hours[h])
	}

	for _, ps := range products {
		summary.TopProducts = append(summary.TopProducts, *ps)
	}
	sort.Slice(summary.TopProducts, func(i, j int) bool {
		a, b := summary.TopProducts[i], summary.TopProducts[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return a.ProductID < b.ProductID
	})
	if len(summary.TopProducts) > topProductsLimit {
		summary.TopProducts = summary.TopProducts[:topProductsLimit]
	}

	return summary
}

// trendWindow returns the trendDays local days ending with the day that holds
// the last instant before the exclusive bound to.
func trendWindow(to time.Time, loc *time.Location) (start, end time.Time) {
	last := to.Add(-time.Nanosecond).In(loc)
	end = time.Date(last.Year(), last.Month(), last.Day()+1, 0, 0, 0, 0, loc)
	return end.AddDate(0, 0, -trendDays), end
}

// DailyTrend buckets orders into days consecutive local days from start,
// listing days without sales as zero. Orders outside the window are ignored.
func DailyTrend(orders []model.Order, start time.Time, days int, loc *time.Location) []model.DailySales {
	trend := make([]model.DailySales, days)
	index := make(map[string]int, days)
	for i := range trend {
		date := start.In(loc).AddDate(0, 0, i).Format(time.DateOnly)
		trend[i] = model.DailySales{Date: date, Sales: decimal.Zero}
		index[date] = i
	}

	for _, o := range orders {
		i, ok := index[o.CreatedAt.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		trend[i].Sales = trend[i].Sales.Add(o.Total)
		trend[i].Orders++
	}
	return trend
}
