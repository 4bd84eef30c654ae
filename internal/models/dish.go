package models

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"

	"github.com/shopspring/decimal"
)

// NutritionMap maps a nutrient name to its numeric amount per serving
type NutritionMap map[string]float64

// Scale multiplies every nutrient by the serving count, rounding each
// value to one decimal place.
func (n NutritionMap) Scale(servings int) NutritionMap {
	if n == nil {
		return nil
	}
	scaled := make(NutritionMap, len(n))
	for name, value := range n {
		scaled[name] = math.Round(value*float64(servings)*10) / 10
	}
	return scaled
}

// Dish is a full catalog entry
type Dish struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	PrepTime       string          `json:"prepTime,omitempty"`
	Image          string          `json:"image,omitempty"`
	TotalNutrition NutritionMap    `json:"totalNutrition,omitempty"`
	Allergens      []string        `json:"allergens,omitempty"`
}

// DishPayload is the minimal dish projection carried in the `data` query
// parameter of a calculator deep link. It deliberately excludes fields the
// calculator does not need.
type DishPayload struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	TotalNutrition NutritionMap    `json:"totalNutrition,omitempty"`
}

// PayloadFor projects a dish down to its deep-link payload
func PayloadFor(dish Dish) DishPayload {
	return DishPayload{
		ID:             dish.ID,
		Name:           dish.Name,
		Price:          dish.Price,
		TotalNutrition: dish.TotalNutrition,
	}
}

// Encode serializes the payload as a URL-escaped JSON value for the
// `data` query parameter
func (p DishPayload) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode dish payload: %w", err)
	}
	return url.QueryEscape(string(data)), nil
}

// DecodeDishPayload parses the JSON value of a `data` query parameter.
// The caller passes the already URL-decoded string.
func DecodeDishPayload(data string) (DishPayload, error) {
	var payload DishPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return DishPayload{}, fmt.Errorf("invalid dish data: %w", err)
	}
	if payload.ID == "" {
		return DishPayload{}, fmt.Errorf("invalid dish data: missing id")
	}
	if payload.Name == "" {
		return DishPayload{}, fmt.Errorf("invalid dish data: missing name")
	}
	if payload.Price.IsNegative() {
		return DishPayload{}, fmt.Errorf("invalid dish data: negative price")
	}
	return payload, nil
}
