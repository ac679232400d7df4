package docs

import (
	"strings"
	"testing"

	"github.com/avives/mall-dining-rag/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRestaurant() models.Restaurant {
	return models.Restaurant{
		ID:                1,
		Name:              "Dino",
		PriceLevel:        "medium",
		Zone:              "north",
		Lat:               41.611700,
		Lng:               2.344400,
		DescriptionLong:   "Italian trattoria with wood-fired pizzas.",
		DescriptionShort:  "Italian trattoria.",
		Cuisines:          "italian, pizza",
		DietaryTags:       "vegetarian, gluten_free",
		Services:          "takeaway, bar",
		OpeningHours:      "10:00-22:00",
		HasMenu:           true,
		AllowReservations: true,
		Phone:             "+34 938 000 000",
		WebsiteURL:        "https://dino.example",
	}
}

func TestRestaurantDocument(t *testing.T) {
	r := fullRestaurant()
	dishes := []models.Dish{
		{RestaurantID: 1, DishID: 10, Weight: 9, Text: "Margherita pizza", DietaryTags: "vegetarian"},
		{RestaurantID: 1, DishID: 11, Weight: 5, Text: "Carbonara"},
		{RestaurantID: 2, DishID: 20, Weight: 8, Text: "Green curry"},
	}

	doc := RestaurantDocument(r, dishes, 10)

	assert.Contains(t, doc, "Dino is a medium-priced restaurant")
	assert.Contains(t, doc, "located in the north zone of the mall.")
	assert.Contains(t, doc, "Italian trattoria with wood-fired pizzas.")
	assert.Contains(t, doc, "Cuisine types: italian, pizza.")
	assert.Contains(t, doc, "Dietary options available: vegetarian, gluten_free.")
	assert.Contains(t, doc, "Services: takeaway, bar.")
	assert.Contains(t, doc, "Open 10:00-22:00.")
	assert.Contains(t, doc, "Menu highlights:")
	assert.Contains(t, doc, "- Margherita pizza (vegetarian)")
	assert.Contains(t, doc, "- Carbonara")
	assert.NotContains(t, doc, "Green curry")
}

func TestRestaurantDocumentPrefersLongDescription(t *testing.T) {
	r := fullRestaurant()
	doc := RestaurantDocument(r, nil, 10)
	assert.Contains(t, doc, "wood-fired pizzas")
	assert.NotContains(t, doc, "Italian trattoria. ")

	r.DescriptionLong = ""
	doc = RestaurantDocument(r, nil, 10)
	assert.Contains(t, doc, "Italian trattoria.")
}

func TestRestaurantDocumentTopN(t *testing.T) {
	r := fullRestaurant()
	dishes := []models.Dish{
		{RestaurantID: 1, DishID: 1, Weight: 9, Text: "first"},
		{RestaurantID: 1, DishID: 2, Weight: 8, Text: "second"},
		{RestaurantID: 1, DishID: 3, Weight: 7, Text: "third"},
	}

	doc := RestaurantDocument(r, dishes, 2)

	assert.Contains(t, doc, "- first")
	assert.Contains(t, doc, "- second")
	assert.NotContains(t, doc, "- third")
}

func TestRestaurantDocumentOmitsEmptyFields(t *testing.T) {
	r := models.Restaurant{
		ID:         3,
		Name:       "Bare",
		PriceLevel: "low",
	}

	doc := RestaurantDocument(r, nil, 10)

	assert.Equal(t, "Bare is a low-priced restaurant", doc)
	assert.NotContains(t, doc, "  ", "omitted fields must contribute zero characters")
	assert.NotContains(t, doc, "..")
}

func TestRestaurantDocumentNoDoubleSeparators(t *testing.T) {
	r := fullRestaurant()
	r.Cuisines = ""
	r.Services = ""
	r.OpeningHours = ""

	doc := RestaurantDocument(r, nil, 10)

	assert.False(t, strings.Contains(doc, "  "), "no double spaces from omitted fields: %q", doc)
	assert.False(t, strings.Contains(doc, ".."), "no double periods from omitted fields: %q", doc)
}

func TestRestaurantMetadata(t *testing.T) {
	meta := RestaurantMetadata(fullRestaurant())

	assert.Equal(t, uint64(1), meta.ID)
	assert.Equal(t, "Dino", meta.Name)
	assert.Equal(t, "medium", meta.PriceLevel)
	assert.Equal(t, "north", meta.Zone)
	assert.InDelta(t, 41.611700, meta.Location.Lat, 1e-9)
	assert.InDelta(t, 2.344400, meta.Location.Lon, 1e-9)
	assert.Equal(t, []string{"italian", "pizza"}, []string(meta.Cuisines))

	assert.True(t, meta.HasVegetarian)
	assert.False(t, meta.HasVegan)
	assert.True(t, meta.HasGlutenFree)
	assert.True(t, meta.HasTakeaway)
	assert.True(t, meta.HasBar)
	assert.True(t, meta.HasMenu)
	assert.True(t, meta.AllowReservations)

	assert.Equal(t, "10:00", meta.OpeningTime)
	assert.Equal(t, "22:00", meta.ClosingTime)
}

func TestRestaurantMetadataVeganDoesNotImplyVegetarianKeyword(t *testing.T) {
	r := fullRestaurant()
	r.DietaryTags = "vegan"

	meta := RestaurantMetadata(r)

	assert.True(t, meta.HasVegan)
	assert.False(t, meta.HasVegetarian)
}

func TestRestaurantMetadataKeywordMatchIsCaseInsensitive(t *testing.T) {
	r := fullRestaurant()
	r.DietaryTags = "Vegan options, GLUTEN_FREE"
	r.Services = "Takeaway"

	meta := RestaurantMetadata(r)

	assert.True(t, meta.HasVegan)
	assert.True(t, meta.HasGlutenFree)
	assert.True(t, meta.HasTakeaway)
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		name    string
		hours   string
		opening string
		closing string
	}{
		{"plain", "10:00-22:00", "10:00", "22:00"},
		{"spaced", "09:30 - 21:00", "09:30", "21:00"},
		{"splits on first dash", "10:00-14:00-20:00", "10:00", "14:00-20:00"},
		{"empty", "", "", ""},
		{"no dash", "all day", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opening, closing := ParseHours(tt.hours)
			require.Equal(t, tt.opening, opening)
			require.Equal(t, tt.closing, closing)
		})
	}
}
