package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiningOption says whether an order is for table service or pickup
type DiningOption string

const (
	DineIn   DiningOption = "dineIn"
	Takeaway DiningOption = "takeaway"
)

// OrderStatus represents the status of a placed order
type OrderStatus string

const (
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusCancelled OrderStatus = "cancelled"
)

// Order is an immutable snapshot of the cart taken at placement time
type Order struct {
	ID                  string          `json:"id"`
	Items               []CartItem      `json:"items"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	OrderDate           string          `json:"orderDate"`
	Status              OrderStatus     `json:"status"`
	DiningOption        DiningOption    `json:"diningOption"`
	TableNumber         string          `json:"tableNumber,omitempty"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
}

// PlaceOrderRequest carries the dining details for a new order
type PlaceOrderRequest struct {
	DiningOption        DiningOption `json:"diningOption"`
	TableNumber         string       `json:"tableNumber,omitempty"`
	SpecialInstructions string       `json:"specialInstructions,omitempty"`
}

// Validate checks the dining constraints before an order may be placed
func (req *PlaceOrderRequest) Validate() error {
	switch req.DiningOption {
	case DineIn:
		if strings.TrimSpace(req.TableNumber) == "" {
			return fmt.Errorf("table number is required for dine-in orders")
		}
	case Takeaway:
		if req.TableNumber != "" {
			return fmt.Errorf("table number must not be present for takeaway orders")
		}
	default:
		return fmt.Errorf("dining option must be one of: dineIn, takeaway")
	}
	return nil
}

// NewOrder builds an order snapshot from cart contents. The items slice
// is copied so later cart mutations cannot reach the order.
func NewOrder(id string, items []CartItem, req *PlaceOrderRequest, placedAt time.Time) Order {
	snapshot := make([]CartItem, len(items))
	copy(snapshot, items)

	tableNumber := ""
	if req.DiningOption == DineIn {
		tableNumber = req.TableNumber
	}

	return Order{
		ID:                  id,
		Items:               snapshot,
		TotalAmount:         CartTotal(snapshot),
		OrderDate:           placedAt.UTC().Format(time.RFC3339),
		Status:              StatusPreparing,
		DiningOption:        req.DiningOption,
		TableNumber:         tableNumber,
		SpecialInstructions: req.SpecialInstructions,
	}
}
