// Package checkout validates payment for a cart and turns it into a persisted order.
package checkout

import (
	"strings"

	"brewpos/internal/model"

	"github.com/shopspring/decimal"
)

// ValidatePayment checks a proposed payment against the order total and returns the change due.
//
// Cash needs a numeric tender of at least total; an absent or unparseable tender is
// treated as insufficient. Card and split payments carry no tender and always pass,
// as there is no card authorisation step.
func ValidatePayment(method model.PaymentMethod, total decimal.Decimal, cashTendered string) (decimal.Decimal, error) {
	if !method.Valid() {
		return decimal.Zero, model.ErrInvalidPaymentMethod
	}

	if method != model.PaymentCash {
		return decimal.Zero, nil
	}

	raw := strings.TrimSpace(cashTendered)
	if raw == "" {
		return decimal.Zero, model.ErrInsufficientPayment
	}

	tendered, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, model.ErrInsufficientPayment
	}

	if tendered.LessThan(total) {
		return decimal.Zero, model.ErrInsufficientPayment
	}

	return tendered.Sub(total), nil
}
