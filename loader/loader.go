package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avives/mall-dining-rag/models"
	"github.com/xuri/excelize/v2"
)

const DefaultWorkbookID = "13h-DvmpyZSa522PVam7rmqcbAXwuB3blSkKye4Wx6qc"

var (
	// ErrFetch marks transport or HTTP failures while downloading the workbook.
	ErrFetch = errors.New("workbook fetch failed")
	// ErrParse marks a workbook that downloaded but could not be decoded.
	ErrParse = errors.New("workbook parse failed")
)

const (
	sheetRestaurants    = "restaurants"
	sheetRestaurantDish = "restaurant_dishes"
	sheetDishKeywords   = "dish_keywords"
)

// Loader fetches the catalog workbook from the Google Sheets export endpoint.
type Loader struct {
	client    *http.Client
	exportURL string
}

func New(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Loader{
		client:    &http.Client{Timeout: timeout},
		exportURL: "https://docs.google.com/spreadsheets/d/%s/export?format=xlsx",
	}
}

// Load downloads the workbook and returns the normalized restaurant and dish
// tables. Dish rows are sorted by (restaurant_id asc, weight desc); top-N
// dish selection downstream relies on that ordering. A missing dish sheet
// degrades to an empty dish table, never an error.
func (l *Loader) Load(ctx context.Context, workbookID string) ([]models.Restaurant, []models.Dish, error) {
	if workbookID == "" {
		workbookID = DefaultWorkbookID
	}

	url := fmt.Sprintf(l.exportURL, workbookID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	return Parse(bytes.NewReader(body))
}

// Parse decodes a multi-sheet xlsx workbook into the two catalog tables.
func Parse(r io.Reader) ([]models.Restaurant, []models.Dish, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer wb.Close()

	restaurantRows, err := readSheet(wb, sheetRestaurants)
	if err != nil {
		return nil, nil, err
	}
	if restaurantRows == nil {
		return nil, nil, fmt.Errorf("%w: missing %q sheet", ErrParse, sheetRestaurants)
	}

	restaurants := make([]models.Restaurant, 0, len(restaurantRows))
	for _, row := range restaurantRows {
		id, err := strconv.ParseUint(row["id"], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad restaurant id %q", ErrParse, row["id"])
		}

		r := models.Restaurant{
			ID:                id,
			Name:              row["name"],
			PriceLevel:        row["price_level"],
			Zone:              row["zone"],
			DescriptionLong:   row["description_long"],
			DescriptionShort:  row["description_short"],
			Cuisines:          row["cuisines"],
			DietaryTags:       row["dietary_tags"],
			Services:          row["services"],
			OpeningHours:      row["opening_hours"],
			HasMenu:           parseBool(row["has_menu"]),
			AllowReservations: parseBool(row["allow_reservations"]),
			Phone:             row["phone"],
			WebsiteURL:        row["website_url"],
		}
		r.Lat, _ = strconv.ParseFloat(row["lat"], 64)
		r.Lng, _ = strconv.ParseFloat(row["lng"], 64)

		if info, ok := zoneData[r.Name]; ok {
			r.Zone = info.Zone
			r.Lat = info.Lat
			r.Lng = info.Lng
		}

		restaurants = append(restaurants, r)
	}

	dishes, err := joinDishes(wb, restaurants)
	if err != nil {
		return nil, nil, err
	}

	return restaurants, dishes, nil
}

// joinDishes inner-joins the restaurant-dish association sheet to the dish
// keyword sheet on dish id, then to the restaurant table on restaurant id.
// Dishes pointing at unknown restaurants are dropped.
func joinDishes(wb *excelize.File, restaurants []models.Restaurant) ([]models.Dish, error) {
	assocRows, err := readSheet(wb, sheetRestaurantDish)
	if err != nil {
		return nil, err
	}
	keywordRows, err := readSheet(wb, sheetDishKeywords)
	if err != nil {
		return nil, err
	}
	if assocRows == nil || keywordRows == nil {
		return []models.Dish{}, nil
	}

	keywords := make(map[uint64]map[string]string, len(keywordRows))
	for _, row := range keywordRows {
		id, err := strconv.ParseUint(row["id"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad dish keyword id %q", ErrParse, row["id"])
		}
		keywords[id] = row
	}

	byID := make(map[uint64]models.Restaurant, len(restaurants))
	for _, r := range restaurants {
		byID[r.ID] = r
	}

	dishes := make([]models.Dish, 0, len(assocRows))
	for _, row := range assocRows {
		restaurantID, err := strconv.ParseUint(row["restaurant_id"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad restaurant_id %q", ErrParse, row["restaurant_id"])
		}
		dishID, err := strconv.ParseUint(row["dish_id"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad dish_id %q", ErrParse, row["dish_id"])
		}

		keyword, ok := keywords[dishID]
		if !ok {
			continue
		}
		restaurant, ok := byID[restaurantID]
		if !ok {
			continue
		}

		weight, _ := strconv.ParseFloat(row["weight"], 64)

		dishes = append(dishes, models.Dish{
			RestaurantID:   restaurantID,
			DishID:         dishID,
			Weight:         weight,
			UpdatedAt:      row["updated_at"],
			Text:           keyword["text"],
			DietaryTags:    keyword["dietary_tags"],
			Category:       keyword["category"],
			RestaurantName: restaurant.Name,
			Zone:           restaurant.Zone,
		})
	}

	sort.SliceStable(dishes, func(i, j int) bool {
		if dishes[i].RestaurantID != dishes[j].RestaurantID {
			return dishes[i].RestaurantID < dishes[j].RestaurantID
		}
		return dishes[i].Weight > dishes[j].Weight
	})

	return dishes, nil
}

// readSheet returns the sheet as header-keyed rows, or nil when the sheet
// does not exist.
func readSheet(wb *excelize.File, name string) ([]map[string]string, error) {
	idx, err := wb.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, nil
	}

	raw, err := wb.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrParse, name, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	header := raw[0]
	rows := make([]map[string]string, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		if emptyRow(cells) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[strings.TrimSpace(col)] = strings.TrimSpace(cells[i])
			} else {
				row[strings.TrimSpace(col)] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "y":
		return true
	}
	return false
}
