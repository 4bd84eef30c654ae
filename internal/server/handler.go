package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tableside/internal/logger"
	"tableside/internal/models"
	"tableside/internal/services/auth"
	"tableside/internal/services/cart"
	"tableside/internal/services/menu"
	"tableside/internal/services/order"
	"tableside/internal/storage"
)

const qrSize = 256

// Handler exposes the ordering core over HTTP
type Handler struct {
	catalog       *menu.Catalog
	cart          *cart.Manager
	orders        *order.Service
	auth          *auth.Manager
	store         storage.Store
	logger        *logger.Logger
	baseURL       string
	navigateDelay time.Duration
}

// NewHandler creates the HTTP handler
func NewHandler(catalog *menu.Catalog, cartManager *cart.Manager, orders *order.Service, authManager *auth.Manager, store storage.Store, log *logger.Logger, baseURL string, navigateDelay time.Duration) *Handler {
	return &Handler{
		catalog:       catalog,
		cart:          cartManager,
		orders:        orders,
		auth:          authManager,
		store:         store,
		logger:        log,
		baseURL:       baseURL,
		navigateDelay: navigateDelay,
	}
}

// SetupRoutes sets up the HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /menu", h.withLogging(h.ListMenu))
	mux.HandleFunc("GET /menu/{id}", h.withLogging(h.GetDish))
	mux.HandleFunc("GET /menu/{id}/qr", h.withLogging(h.GetDishQR))
	mux.HandleFunc("GET /calculator", h.withLogging(h.Calculator))

	mux.HandleFunc("GET /cart", h.withLogging(h.GetCart))
	mux.HandleFunc("POST /cart/items", h.withLogging(h.AddCartItem))
	mux.HandleFunc("PUT /cart/items/{id}", h.withLogging(h.UpdateCartItem))
	mux.HandleFunc("DELETE /cart/items/{id}", h.withLogging(h.RemoveCartItem))
	mux.HandleFunc("DELETE /cart", h.withLogging(h.ClearCart))

	mux.HandleFunc("POST /orders", h.withLogging(h.PlaceOrder))
	mux.HandleFunc("GET /orders", h.withLogging(h.ListOrders))

	mux.HandleFunc("POST /signup", h.withLogging(h.Signup))
	mux.HandleFunc("POST /login", h.withLogging(h.Login))
	mux.HandleFunc("POST /logout", h.withLogging(h.Logout))

	mux.HandleFunc("GET /health", h.withLogging(h.HealthCheck))

	return mux
}

// dishResponse decorates a dish with its served image path and deep link
type dishResponse struct {
	models.Dish
	ImagePath string `json:"imagePath"`
	DeepLink  string `json:"deepLink,omitempty"`
}

// ListMenu handles GET /menu
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	dishes := h.catalog.List()

	out := make([]dishResponse, 0, len(dishes))
	for _, dish := range dishes {
		link, err := menu.DeepLink(h.baseURL, dish)
		if err != nil {
			link = ""
		}
		out = append(out, dishResponse{Dish: dish, ImagePath: menu.ImagePath(dish), DeepLink: link})
	}

	h.writeJSON(w, http.StatusOK, out)
}

// GetDish handles GET /menu/{id}
func (h *Handler) GetDish(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	dish, ok := h.catalog.Get(r.PathValue("id"))
	if !ok {
		h.writeErrorResponse(w, http.StatusNotFound, "Dish not found", requestID)
		return
	}

	link, err := menu.DeepLink(h.baseURL, dish)
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, dishResponse{Dish: dish, ImagePath: menu.ImagePath(dish), DeepLink: link})
}

// GetDishQR handles GET /menu/{id}/qr
func (h *Handler) GetDishQR(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	dish, ok := h.catalog.Get(r.PathValue("id"))
	if !ok {
		h.writeErrorResponse(w, http.StatusNotFound, "Dish not found", requestID)
		return
	}

	png, err := menu.QRCode(h.baseURL, dish, qrSize)
	if err != nil {
		h.logger.Error("qr_render_failed", "Failed to render QR code", requestID, err, map[string]interface{}{
			"dish_id": dish.ID,
		})
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// calculatorResponse is the scaled nutrition preview for a deep link
type calculatorResponse struct {
	Dish      models.DishPayload  `json:"dish"`
	Servings  int                 `json:"servings"`
	Nutrition models.NutritionMap `json:"nutrition,omitempty"`
	Total     string              `json:"total"`
}

// Calculator handles GET /calculator?data=...&servings=n
func (h *Handler) Calculator(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	payload, err := models.DecodeDishPayload(r.URL.Query().Get("data"))
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid dish data", requestID)
		return
	}

	servings := 1
	if raw := r.URL.Query().Get("servings"); raw != "" {
		servings, err = strconv.Atoi(raw)
		if err != nil || servings < 1 {
			h.writeErrorResponse(w, http.StatusBadRequest, "servings must be a positive integer", requestID)
			return
		}
	}

	item, err := menu.BuildCartItem(payload, "", servings)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, calculatorResponse{
		Dish:      payload,
		Servings:  servings,
		Nutrition: item.Nutrition,
		Total:     item.LineTotal().String(),
	})
}

// cartResponse is the cart view: items plus the derived total
type cartResponse struct {
	Items       []models.CartItem `json:"items"`
	TotalAmount string            `json:"totalAmount"`
}

// GetCart handles GET /cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, cartResponse{
		Items:       h.cart.Items(),
		TotalAmount: h.cart.TotalAmount().String(),
	})
}

// addCartItemRequest carries a calculator payload into the cart
type addCartItemRequest struct {
	Dish     models.DishPayload `json:"dish"`
	Image    string             `json:"image,omitempty"`
	Servings int                `json:"servings"`
}

// AddCartItem handles POST /cart/items
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	item, err := menu.BuildCartItem(req.Dish, req.Image, req.Servings)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	if err := h.cart.AddToCart(r.Context(), item); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, cartResponse{
		Items:       h.cart.Items(),
		TotalAmount: h.cart.TotalAmount().String(),
	})
}

// updateQuantityRequest replaces an item's quantity
type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem handles PUT /cart/items/{id}
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	var req updateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), r.PathValue("id"), req.Quantity); err != nil {
		if errors.Is(err, cart.ErrQuantityTooSmall) {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, cartResponse{
		Items:       h.cart.Items(),
		TotalAmount: h.cart.TotalAmount().String(),
	})
}

// RemoveCartItem handles DELETE /cart/items/{id}
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	if err := h.cart.RemoveFromCart(r.Context(), r.PathValue("id")); err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, cartResponse{
		Items:       h.cart.Items(),
		TotalAmount: h.cart.TotalAmount().String(),
	})
}

// ClearCart handles DELETE /cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	if err := h.cart.ClearCart(r.Context()); err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// placeOrderResponse returns the created order and the UI navigation hint
type placeOrderResponse struct {
	Order           *models.Order `json:"order"`
	NavigateAfterMS int64         `json:"navigate_after_ms"`
}

// PlaceOrder handles POST /orders
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	// The cart view redirects to the menu when empty; the same
	// prevention lives here, upstream of the placement flow.
	if h.cart.Len() == 0 {
		h.writeErrorResponse(w, http.StatusConflict, "Your order is empty", requestID)
		return
	}

	var req models.PlaceOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	placed, err := h.orders.PlaceOrder(ctx, &req, requestID)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, placeOrderResponse{
		Order:           placed,
		NavigateAfterMS: h.navigateDelay.Milliseconds(),
	})
}

// ListOrders handles GET /orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.orders.ListOrders(r.Context())
	if orders == nil {
		orders = []models.Order{}
	}
	h.writeJSON(w, http.StatusOK, orders)
}

// Signup handles POST /signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	var req models.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	session, err := h.auth.Signup(&req, requestID)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.writeJSON(w, http.StatusCreated, session)
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	session, err := h.auth.Login(&req, requestID)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, session)
}

// logoutRequest names the session to revoke
type logoutRequest struct {
	SessionID string `json:"session_id"`
}

// Logout handles POST /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	var req logoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	h.auth.Logout(req.SessionID)
	w.WriteHeader(http.StatusNoContent)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	healthy := true
	if p, ok := h.store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			healthy = false
		}
	}

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "tableside",
		"healthy":   healthy,
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		response["status"] = "unhealthy"
	}
	json.NewEncoder(w).Encode(response)
}

// decodeJSON parses a JSON request body, rejecting unknown fields
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// writeJSON writes a JSON response body
func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", "", err, nil)
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

type contextKey string

const requestIDKey contextKey = "request_id"

func requestIDFrom(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// withLogging adds request logging middleware
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		h.logger.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.Header.Get("User-Agent"),
			})

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}
		next(rw, r)

		duration := time.Since(start)
		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
