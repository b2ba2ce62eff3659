// Package cart holds the in-progress selection for a checkout session and prices it.
package cart

import (
	"slices"
	"strings"

	"brewpos/internal/model"

	"github.com/shopspring/decimal"
)

// defaultVariantKey names the line of a product added without variants.
const defaultVariantKey = "default"

// Totals is the priced summary of a cart.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Cart is an ordered collection of lines. It is not safe for concurrent use;
// Session serialises access when a cart is shared between requests.
type Cart struct {
	lines []model.CartLine
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// LineID derives the identity of a line from the product and the selected variants,
// so selecting the same combination again merges into the existing line. The order
// in which variants were picked does not matter.
func LineID(productID string, variants ...model.Variant) string {
	if len(variants) == 0 {
		return productID + "-" + defaultVariantKey
	}
	ids := make([]string, len(variants))
	for i, v := range variants {
		ids[i] = v.ID
	}
	slices.Sort(ids)
	return productID + "-" + strings.Join(ids, "+")
}

// AddLine adds one unit of product with the given variants. The product's priced
// fields are copied so later catalogue edits do not reach the cart.
func (c *Cart) AddLine(product model.Product, variants ...model.Variant) model.CartLine {
	id := LineID(product.ID, variants...)

	if i := c.index(id); i >= 0 {
		line := &c.lines[i]
		line.Quantity++
		line.TotalPrice = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		return copyLine(*line)
	}

	unitPrice := product.Price
	for _, v := range variants {
		unitPrice = unitPrice.Add(v.PriceModifier)
	}

	line := model.CartLine{
		ID: id,
		Product: model.ProductSnapshot{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Category: product.Category,
		},
		Quantity:   1,
		Variants:   append([]model.Variant{}, variants...),
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice,
	}
	c.lines = append(c.lines, line)

	return copyLine(line)
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less removes it.
// It reports whether the line existed.
func (c *Cart) UpdateQuantity(lineID string, quantity int) bool {
	i := c.index(lineID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.removeAt(i)
		return true
	}

	line := &c.lines[i]
	line.Quantity = quantity
	line.TotalPrice = line.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return true
}

// RemoveLine removes the line if present and reports whether it was.
func (c *Cart) RemoveLine(lineID string) bool {
	i := c.index(lineID)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []model.CartLine {
	out := make([]model.CartLine, len(c.lines))
	for i, l := range c.lines {
		out[i] = copyLine(l)
	}
	return out
}

// Line returns a copy of the line with the given id.
func (c *Cart) Line(lineID string) (model.CartLine, bool) {
	i := c.index(lineID)
	if i < 0 {
		return model.CartLine{}, false
	}
	return copyLine(c.lines[i]), true
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// ItemCount returns the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// ComputeTotals prices the cart at taxRate. It has no side effects.
func (c *Cart) ComputeTotals(taxRate decimal.Decimal) Totals {
	return ComputeTotals(c.lines, taxRate)
}

// ComputeTotals prices a set of lines: subtotal is the sum of line totals,
// tax is subtotal * taxRate and total is their sum. Nothing is rounded here.
func ComputeTotals(lines []model.CartLine, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.TotalPrice)
	}
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

func (c *Cart) index(lineID string) int {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func copyLine(l model.CartLine) model.CartLine {
	l.Variants = append([]model.Variant{}, l.Variants...)
	return l
}
