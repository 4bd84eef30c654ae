package order

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableside/internal/events"
	"tableside/internal/logger"
	"tableside/internal/models"
	"tableside/internal/services/cart"
	"tableside/internal/storage"
)

// Clock supplies the current time. Injected so tests can pin it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time { return time.Now() }

// Service places orders and reads the order history. Orders are an
// append-only list persisted as a whole under one key.
type Service struct {
	store      storage.Store
	cart       *cart.Manager
	dispatcher events.Dispatcher
	logger     *logger.Logger
	clock      Clock

	// Serializes the read-modify-write of the whole orders list.
	mu sync.Mutex
}

// NewService creates an order service
func NewService(store storage.Store, cartManager *cart.Manager, dispatcher events.Dispatcher, log *logger.Logger, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		store:      store,
		cart:       cartManager,
		dispatcher: dispatcher,
		logger:     log,
		clock:      clock,
	}
}

// PlaceOrder validates the dining details, snapshots the cart into an
// immutable order, appends it to the persisted list and clears the cart.
// Validation failure leaves all state untouched.
func (s *Service) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest, requestID string) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := models.NewOrder(uuid.NewString(), s.cart.Items(), req, s.clock.Now())

	orders := s.loadOrders(ctx)
	orders = append(orders, order)

	data, err := json.Marshal(orders)
	if err != nil {
		return nil, fmt.Errorf("failed to encode orders: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyOrders, data); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if err := s.cart.ClearCart(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear cart after placement: %w", err)
	}

	// The fan-out is an observer; its failure never fails the order.
	if err := s.dispatcher.Dispatch(ctx, events.OrderPlaced{
		OrderID:      order.ID,
		TotalAmount:  order.TotalAmount.String(),
		DiningOption: string(order.DiningOption),
		OrderDate:    order.OrderDate,
		ItemCount:    len(order.Items),
	}); err != nil {
		s.logger.Error("event_dispatch_failed", "Failed to dispatch order placed event", requestID, err, map[string]interface{}{
			"order_id": order.ID,
		})
	}

	s.logger.Info("order_placed", "Order placed", requestID, map[string]interface{}{
		"order_id":      order.ID,
		"total_amount":  order.TotalAmount.String(),
		"dining_option": order.DiningOption,
		"item_count":    len(order.Items),
	})

	return &order, nil
}

// ListOrders loads the persisted orders once and returns them newest
// first. Missing or malformed data yields an empty list, never an error.
func (s *Service) ListOrders(ctx context.Context) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.loadOrders(ctx)

	reversed := make([]models.Order, len(orders))
	for i, order := range orders {
		reversed[len(orders)-1-i] = order
	}
	return reversed
}

// loadOrders reads the whole persisted list. Callers hold the lock.
func (s *Service) loadOrders(ctx context.Context) []models.Order {
	data, ok, err := s.store.Get(ctx, storage.KeyOrders)
	if err != nil {
		s.logger.Error("orders_load_failed", "Failed to read persisted orders, treating as empty", "", err, nil)
		return nil
	}
	if !ok {
		return nil
	}

	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		s.logger.Error("orders_load_failed", "Persisted orders are malformed, treating as empty", "", err, nil)
		return nil
	}
	return orders
}
