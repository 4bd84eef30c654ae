package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPlaceOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *PlaceOrderRequest
		wantErr bool
	}{
		{
			name:    "dine-in with table",
			req:     &PlaceOrderRequest{DiningOption: DineIn, TableNumber: "T4"},
			wantErr: false,
		},
		{
			name:    "dine-in without table",
			req:     &PlaceOrderRequest{DiningOption: DineIn, TableNumber: ""},
			wantErr: true,
		},
		{
			name:    "dine-in with blank table",
			req:     &PlaceOrderRequest{DiningOption: DineIn, TableNumber: "   "},
			wantErr: true,
		},
		{
			name:    "takeaway",
			req:     &PlaceOrderRequest{DiningOption: Takeaway},
			wantErr: false,
		},
		{
			name:    "takeaway with table",
			req:     &PlaceOrderRequest{DiningOption: Takeaway, TableNumber: "T4"},
			wantErr: true,
		},
		{
			name:    "unknown option",
			req:     &PlaceOrderRequest{DiningOption: "delivery"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewOrder_Snapshot(t *testing.T) {
	items := []CartItem{
		{ID: "d1", Name: "Biryani", Price: decimal.NewFromInt(100), Quantity: 2},
		{ID: "d2", Name: "Raita", Price: decimal.NewFromInt(50), Quantity: 1},
	}
	req := &PlaceOrderRequest{DiningOption: DineIn, TableNumber: "T4", SpecialInstructions: "less spicy"}
	placedAt := time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)

	order := NewOrder("o1", items, req, placedAt)

	if !order.TotalAmount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("TotalAmount = %s, want 250", order.TotalAmount)
	}
	if order.Status != StatusPreparing {
		t.Fatalf("Status = %s, want preparing", order.Status)
	}
	if order.OrderDate != "2025-03-14T12:30:00Z" {
		t.Fatalf("OrderDate = %s", order.OrderDate)
	}
	if order.TableNumber != "T4" {
		t.Fatalf("TableNumber = %s, want T4", order.TableNumber)
	}

	// Mutating the source slice must not reach the snapshot.
	items[0].Quantity = 99
	if order.Items[0].Quantity != 2 {
		t.Fatalf("order items share backing array with the cart")
	}
}

func TestNewOrder_TakeawayDropsTableNumber(t *testing.T) {
	req := &PlaceOrderRequest{DiningOption: Takeaway, TableNumber: ""}
	order := NewOrder("o1", nil, req, time.Now())

	if order.TableNumber != "" {
		t.Fatalf("takeaway order carries table number %q", order.TableNumber)
	}
	if !order.TotalAmount.Equal(decimal.Zero) {
		t.Fatalf("empty snapshot total = %s, want 0", order.TotalAmount)
	}
}

func TestCartTotal(t *testing.T) {
	items := []CartItem{
		{ID: "d1", Price: decimal.RequireFromString("9.99"), Quantity: 3},
		{ID: "d2", Price: decimal.RequireFromString("0.01"), Quantity: 1},
	}

	want := decimal.RequireFromString("29.98")
	if got := CartTotal(items); !got.Equal(want) {
		t.Fatalf("CartTotal = %s, want %s", got, want)
	}
}
