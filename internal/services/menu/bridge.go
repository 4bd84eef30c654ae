package menu

import (
	"fmt"

	"tableside/internal/models"
)

// BuildCartItem converts a calculator payload and serving count into a
// cart item. The quantity equals the serving count and the nutrition is
// scaled linearly per serving.
func BuildCartItem(payload models.DishPayload, image string, servings int) (models.CartItem, error) {
	if servings < 1 {
		return models.CartItem{}, fmt.Errorf("servings must be at least 1")
	}

	item := models.CartItem{
		ID:        payload.ID,
		Name:      payload.Name,
		Price:     payload.Price,
		Image:     image,
		Quantity:  servings,
		Nutrition: payload.TotalNutrition.Scale(servings),
	}

	if err := item.Validate(); err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}
