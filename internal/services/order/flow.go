package order

import (
	"context"
	"errors"
	"time"

	"tableside/internal/models"
)

// FlowState is a phase of the order placement flow
type FlowState string

const (
	StateIdle       FlowState = "idle"
	StateValidating FlowState = "validating"
	StatePlaced     FlowState = "placed"
	StateNavigated  FlowState = "navigated"
)

// ErrFlowBusy is returned when Submit is called while a previous
// placement is still in flight.
var ErrFlowBusy = errors.New("an order placement is already in progress")

// Flow drives order placement as explicit state transitions:
// idle -> validating -> placed -> navigated. After the configured delay
// the placed state yields to navigated, which replaces the fixed
// post-placement navigation timer of the original flow.
type Flow struct {
	service *Service
	delay   time.Duration
	clock   Clock

	state    FlowState
	placedAt time.Time
	order    *models.Order
}

// NewFlow creates a placement flow with the given navigation delay
func NewFlow(service *Service, delay time.Duration, clock Clock) *Flow {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Flow{
		service: service,
		delay:   delay,
		clock:   clock,
		state:   StateIdle,
	}
}

// State returns the current flow state
func (f *Flow) State() FlowState { return f.state }

// Order returns the order produced by the last successful Submit
func (f *Flow) Order() *models.Order { return f.order }

// Submit runs one placement attempt. Validation failure returns the flow
// to idle with no state change; success parks it in placed until the
// navigation delay elapses.
func (f *Flow) Submit(ctx context.Context, req *models.PlaceOrderRequest, requestID string) (*models.Order, error) {
	if f.state != StateIdle {
		return nil, ErrFlowBusy
	}

	f.state = StateValidating
	order, err := f.service.PlaceOrder(ctx, req, requestID)
	if err != nil {
		f.state = StateIdle
		return nil, err
	}

	f.state = StatePlaced
	f.placedAt = f.clock.Now()
	f.order = order
	return order, nil
}

// Tick advances placed to navigated once the delay has elapsed. It
// returns true when the transition fires.
func (f *Flow) Tick() bool {
	if f.state != StatePlaced {
		return false
	}
	if f.clock.Now().Sub(f.placedAt) < f.delay {
		return false
	}
	f.state = StateNavigated
	return true
}

// Reset returns the flow to idle for the next placement
func (f *Flow) Reset() {
	f.state = StateIdle
	f.order = nil
}
