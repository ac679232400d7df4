package docs

import (
	"fmt"
	"strings"

	"github.com/avives/mall-dining-rag/models"
)

// DishDocument renders one dish as embedding text. Same omission rule as the
// restaurant builder: absent fields add nothing.
func DishDocument(d models.Dish) string {
	parts := []string{d.Text}

	if d.DietaryTags != "" {
		parts = append(parts, fmt.Sprintf("(%s)", d.DietaryTags))
	}
	if d.Category != "" {
		parts = append(parts, fmt.Sprintf("Category: %s.", d.Category))
	}
	if d.RestaurantName != "" {
		parts = append(parts, fmt.Sprintf("Available at %s.", d.RestaurantName))
	}

	return strings.Join(parts, " ")
}

// DishMetadata maps one dish row onto the flat filter record, denormalizing
// the owning restaurant's name, zone and price level so dish queries can
// filter on restaurant attributes without a join.
func DishMetadata(d models.Dish, r models.Restaurant) models.DishDoc {
	return models.DishDoc{
		RestaurantID:   d.RestaurantID,
		DishID:         d.DishID,
		Category:       d.Category,
		Weight:         d.Weight,
		HasVegetarian:  hasTag(d.DietaryTags, "vegetarian"),
		HasVegan:       hasTag(d.DietaryTags, "vegan"),
		HasGlutenFree:  hasTag(d.DietaryTags, "gluten_free"),
		HasHalal:       hasTag(d.DietaryTags, "halal"),
		HasLactoseFree: hasTag(d.DietaryTags, "lactose_free"),
		RestaurantName: r.Name,
		Zone:           r.Zone,
		PriceLevel:     r.PriceLevel,
	}
}
