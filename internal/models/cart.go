package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartItem is one line of the working cart. Items are unique by ID; the
// quantity is always at least one.
type CartItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	Nutrition NutritionMap    `json:"nutrition,omitempty"`
}

// Validate checks the invariants a cart item must hold before it enters
// the cart
func (i CartItem) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("item id is required")
	}
	if i.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("item price must not be negative")
	}
	if i.Quantity < 1 {
		return fmt.Errorf("item quantity must be at least 1")
	}
	return nil
}

// LineTotal returns price multiplied by quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotal sums price times quantity over the given items
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
