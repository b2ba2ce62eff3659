package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings holds shop-wide configuration edited from the back office.
type Settings struct {
	ShopName      string          `json:"shopName" db:"shop_name"`
	Address       string          `json:"address" db:"address"`
	Phone         string          `json:"phone" db:"phone"`
	Email         string          `json:"email" db:"email"`
	TaxRate       decimal.Decimal `json:"taxRate" db:"tax_rate"`
	Currency      string          `json:"currency" db:"currency"`
	ReceiptFooter string          `json:"receiptFooter" db:"receipt_footer"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// taxRatePlaces is the scale of stored tax rates.
const taxRatePlaces = 4

// Validate checks the settings are usable at checkout.
func (s *Settings) Validate() error {
	if s.TaxRate.IsNegative() || s.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return ErrInvalidSettings
	}
	if !withinPlaces(s.TaxRate, taxRatePlaces) {
		return ErrInvalidSettings
	}
	return nil
}

// SalesSummary aggregates completed orders over a period.
type SalesSummary struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalOrders       int             `json:"totalOrders"`
	CashSales         decimal.Decimal `json:"cashSales"`
	CardSales         decimal.Decimal `json:"cardSales"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	TopProducts       []ProductSales  `json:"topProducts"`
	SalesByHour       []HourlySales   `json:"salesByHour"`
	SalesByDay        []DailySales    `json:"salesByDay"`
}

// ProductSales is one row of the top products table.
type ProductSales struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	QuantitySold int             `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// HourlySales buckets sales by hour of day.
type HourlySales struct {
	Hour   int             `json:"hour"`
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
}

// DailySales is one day of the sales trend. Date is YYYY-MM-DD in shop time.
type DailySales struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
}
