package menu

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"tableside/internal/models"
)

// PlaceholderImage is served when a dish has no usable image reference
const PlaceholderImage = "/images/placeholder.png"

// DeepLink builds the self-contained calculator link for a dish. The
// same URL is what the dish's QR code encodes, so scanning it needs no
// server lookup.
func DeepLink(baseURL string, dish models.Dish) (string, error) {
	data, err := models.PayloadFor(dish).Encode()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/calculator?data=%s", strings.TrimRight(baseURL, "/"), data), nil
}

// QRCode renders the dish's deep link as a PNG
func QRCode(baseURL string, dish models.Dish, size int) ([]byte, error) {
	link, err := DeepLink(baseURL, dish)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}

// ImagePath resolves a dish image reference to its served path, falling
// back to the placeholder for a blank reference
func ImagePath(dish models.Dish) string {
	if strings.TrimSpace(dish.Image) == "" {
		return PlaceholderImage
	}
	return "/images/dishes/" + dish.Image
}
