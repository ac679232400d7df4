// Package docs builds the embedding documents and filter metadata for the
// two collections. Builders are pure: the same row always yields the same
// document, and omitted optional fields contribute zero characters so the
// embedding text carries no placeholder noise.
package docs

import (
	"fmt"
	"strings"

	"github.com/avives/mall-dining-rag/models"
	"github.com/lib/pq"
)

// RestaurantDocument renders one restaurant, with up to topN of its dishes,
// as natural-language embedding text. Dish selection takes the first topN
// rows matching the restaurant id, relying on the loader's sort by weight
// descending.
func RestaurantDocument(r models.Restaurant, dishes []models.Dish, topN int) string {
	parts := []string{
		fmt.Sprintf("%s is a %s-priced restaurant", r.Name, r.PriceLevel),
	}

	if r.Zone != "" {
		parts = append(parts, fmt.Sprintf("located in the %s zone of the mall.", r.Zone))
	}

	description := r.DescriptionLong
	if description == "" {
		description = r.DescriptionShort
	}
	if description != "" {
		parts = append(parts, description)
	}

	if r.Cuisines != "" {
		parts = append(parts, fmt.Sprintf("Cuisine types: %s.", r.Cuisines))
	}
	if r.DietaryTags != "" {
		parts = append(parts, fmt.Sprintf("Dietary options available: %s.", r.DietaryTags))
	}
	if r.Services != "" {
		parts = append(parts, fmt.Sprintf("Services: %s.", r.Services))
	}
	if r.OpeningHours != "" {
		parts = append(parts, fmt.Sprintf("Open %s.", r.OpeningHours))
	}

	var own []models.Dish
	for _, d := range dishes {
		if d.RestaurantID == r.ID {
			own = append(own, d)
			if len(own) == topN {
				break
			}
		}
	}

	if len(own) > 0 {
		parts = append(parts, "\nMenu highlights:")
		for _, d := range own {
			line := "- " + d.Text
			if d.DietaryTags != "" {
				line += fmt.Sprintf(" (%s)", d.DietaryTags)
			}
			parts = append(parts, line)
		}
	}

	return strings.Join(parts, " ")
}

// RestaurantMetadata maps one restaurant row onto the flat filter record.
// Dietary and service flags come from a case-insensitive substring match of
// a fixed keyword over the free-text tag fields; this is a documented
// heuristic, not a controlled vocabulary.
func RestaurantMetadata(r models.Restaurant) models.RestaurantDoc {
	opening, closing := ParseHours(r.OpeningHours)

	return models.RestaurantDoc{
		ID:                r.ID,
		Name:              r.Name,
		PriceLevel:        r.PriceLevel,
		Zone:              r.Zone,
		Location:          models.NewGeoPoint(r.Lng, r.Lat),
		Cuisines:          splitList(r.Cuisines),
		HasVegetarian:     hasTag(r.DietaryTags, "vegetarian"),
		HasVegan:          hasTag(r.DietaryTags, "vegan"),
		HasGlutenFree:     hasTag(r.DietaryTags, "gluten_free"),
		HasTakeaway:       hasTag(r.Services, "takeaway"),
		HasBar:            hasTag(r.Services, "bar"),
		HasMenu:           r.HasMenu,
		AllowReservations: r.AllowReservations,
		Phone:             r.Phone,
		WebsiteURL:        r.WebsiteURL,
		OpeningTime:       opening,
		ClosingTime:       closing,
	}
}

// ParseHours splits an "open-close" text field on its first dash into
// zero-padded HH:MM strings. Absent or malformed hours yield two empty
// strings, never an error.
func ParseHours(hours string) (opening, closing string) {
	from, until, found := strings.Cut(hours, "-")
	if !found {
		return "", ""
	}

	return strings.TrimSpace(from), strings.TrimSpace(until)
}

func hasTag(field, keyword string) bool {
	return strings.Contains(strings.ToLower(field), keyword)
}

func splitList(field string) pq.StringArray {
	if strings.TrimSpace(field) == "" {
		return nil
	}

	var out pq.StringArray
	for _, item := range strings.Split(field, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}
