package menu

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"tableside/internal/logger"
	"tableside/internal/models"
)

//go:embed menu.json
var defaultMenu []byte

// Catalog is the static dish catalog the menu view serves
type Catalog struct {
	dishes []models.Dish
	byID   map[string]models.Dish
	logger *logger.Logger
}

// NewCatalog loads the catalog from the given JSON file. An empty path
// falls back to the embedded default menu.
func NewCatalog(path string, log *logger.Logger) (*Catalog, error) {
	data := defaultMenu
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read menu file: %w", err)
		}
		data = fileData
	}

	var dishes []models.Dish
	if err := json.Unmarshal(data, &dishes); err != nil {
		return nil, fmt.Errorf("failed to parse menu: %w", err)
	}

	byID := make(map[string]models.Dish, len(dishes))
	for _, dish := range dishes {
		if dish.ID == "" {
			return nil, fmt.Errorf("menu contains a dish without an id")
		}
		if _, exists := byID[dish.ID]; exists {
			return nil, fmt.Errorf("menu contains duplicate dish id %q", dish.ID)
		}
		byID[dish.ID] = dish
	}

	log.Info("menu_loaded", fmt.Sprintf("Loaded %d dishes", len(dishes)), "startup", nil)

	return &Catalog{
		dishes: dishes,
		byID:   byID,
		logger: log,
	}, nil
}

// List returns every dish in menu order
func (c *Catalog) List() []models.Dish {
	out := make([]models.Dish, len(c.dishes))
	copy(out, c.dishes)
	return out
}

// Get returns the dish with the given ID
func (c *Catalog) Get(id string) (models.Dish, bool) {
	dish, ok := c.byID[id]
	return dish, ok
}
