// Package search composes the two vector store wrappers behind one query
// surface: it translates the named optional filter parameters into store
// predicates, applies the post-filters the store cannot express
// (open-at-time windows, grouping by restaurant) and owns the load/index
// cycle.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/avives/mall-dining-rag/docs"
	"github.com/avives/mall-dining-rag/models"
	"github.com/avives/mall-dining-rag/store"
)

// RestaurantIndex is the restaurant collection as the facade consumes it.
type RestaurantIndex interface {
	Index(ctx context.Context, docs []models.RestaurantDoc, force bool) error
	Query(ctx context.Context, text string, k int, filter store.Filter) ([]models.RestaurantDoc, error)
	GetByID(ctx context.Context, id uint64) (*models.RestaurantDoc, error)
	GetByName(ctx context.Context, name string) (*models.RestaurantDoc, error)
	Count(ctx context.Context) (int64, error)
}

// DishIndex is the dish collection as the facade consumes it.
type DishIndex interface {
	Index(ctx context.Context, docs []models.DishDoc, force bool) error
	Query(ctx context.Context, text string, k int, filter store.Filter) ([]models.DishDoc, error)
	Get(ctx context.Context, restaurantID, dishID uint64) (*models.DishDoc, error)
	Count(ctx context.Context) (int64, error)
}

// CatalogLoader fetches the raw restaurant and dish tables.
type CatalogLoader interface {
	Load(ctx context.Context, workbookID string) ([]models.Restaurant, []models.Dish, error)
}

// Search is the facade over both collections. Construct one per process and
// share it; queries are safe for concurrent callers, LoadAndIndex is not
// safe to run concurrently with itself.
type Search struct {
	restaurants RestaurantIndex
	dishes      DishIndex
	loader      CatalogLoader
	loc         *time.Location
	now         func() time.Time

	mu              sync.RWMutex
	restaurantTable []models.Restaurant
	dishTable       []models.Dish
}

func New(restaurants RestaurantIndex, dishes DishIndex, ld CatalogLoader, loc *time.Location) *Search {
	if loc == nil {
		loc = time.UTC
	}

	return &Search{
		restaurants: restaurants,
		dishes:      dishes,
		loader:      ld,
		loc:         loc,
		now:         time.Now,
	}
}

type LoadOptions struct {
	WorkbookID string
	Force      bool
	TopNDishes int
}

// LoadAndIndex loads the catalog and indexes both collections. When both
// collections already report documents the pass is skipped, which makes
// process restarts cheap at the cost of staleness; operators force-reindex
// to pick up source changes.
func (s *Search) LoadAndIndex(ctx context.Context, opts LoadOptions) error {
	if opts.TopNDishes < 1 {
		opts.TopNDishes = 10
	}

	if !opts.Force {
		restaurantCount, err := s.restaurants.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count restaurant collection: %w", err)
		}
		dishCount, err := s.dishes.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count dish collection: %w", err)
		}

		if restaurantCount > 0 && dishCount > 0 {
			slog.Info("collections already indexed, skipping",
				"restaurants", restaurantCount, "dishes", dishCount)
			return nil
		}
	}

	restaurants, dishes, err := s.loader.Load(ctx, opts.WorkbookID)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	slog.Info("loaded catalog", "restaurants", len(restaurants), "dishes", len(dishes))

	restaurantDocs := make([]models.RestaurantDoc, 0, len(restaurants))
	byID := make(map[uint64]models.Restaurant, len(restaurants))
	for _, r := range restaurants {
		doc := docs.RestaurantMetadata(r)
		doc.Document = docs.RestaurantDocument(r, dishes, opts.TopNDishes)
		restaurantDocs = append(restaurantDocs, doc)
		byID[r.ID] = r
	}

	dishDocs := make([]models.DishDoc, 0, len(dishes))
	for _, d := range dishes {
		doc := docs.DishMetadata(d, byID[d.RestaurantID])
		doc.Document = docs.DishDocument(d)
		dishDocs = append(dishDocs, doc)
	}

	if err := s.restaurants.Index(ctx, restaurantDocs, opts.Force); err != nil {
		return fmt.Errorf("failed to index restaurants: %w", err)
	}
	if err := s.dishes.Index(ctx, dishDocs, opts.Force); err != nil {
		return fmt.Errorf("failed to index dishes: %w", err)
	}

	s.mu.Lock()
	s.restaurantTable = restaurants
	s.dishTable = dishes
	s.mu.Unlock()

	return nil
}

// RestaurantQuery carries the optional, independently specifiable filters
// for a restaurant search. Nil pointers mean "don't care"; a false boolean
// is a real constraint.
type RestaurantQuery struct {
	Query             string
	N                 int
	PriceLevel        *string
	Zone              *string
	HasVegetarian     *bool
	HasVegan          *bool
	HasGlutenFree     *bool
	HasTakeaway       *bool
	HasBar            *bool
	HasMenu           *bool
	AllowReservations *bool
	OpenNow           bool
	OpenAt            string
}

func (q RestaurantQuery) filter() store.Filter {
	var f store.Filter
	if q.PriceLevel != nil {
		f = append(f, store.Cond{Column: "price_level", Value: *q.PriceLevel})
	}
	if q.Zone != nil {
		f = append(f, store.Cond{Column: "zone", Value: *q.Zone})
	}
	if q.HasVegetarian != nil {
		f = append(f, store.Cond{Column: "has_vegetarian", Value: *q.HasVegetarian})
	}
	if q.HasVegan != nil {
		f = append(f, store.Cond{Column: "has_vegan", Value: *q.HasVegan})
	}
	if q.HasGlutenFree != nil {
		f = append(f, store.Cond{Column: "has_gluten_free", Value: *q.HasGlutenFree})
	}
	if q.HasTakeaway != nil {
		f = append(f, store.Cond{Column: "has_takeaway", Value: *q.HasTakeaway})
	}
	if q.HasBar != nil {
		f = append(f, store.Cond{Column: "has_bar", Value: *q.HasBar})
	}
	if q.HasMenu != nil {
		f = append(f, store.Cond{Column: "has_menu", Value: *q.HasMenu})
	}
	if q.AllowReservations != nil {
		f = append(f, store.Cond{Column: "allow_reservations", Value: *q.AllowReservations})
	}

	return f
}

// Restaurants runs a filtered similarity search. The open-at-time window is
// applied after the top-k query returns, so results can come back shorter
// than requested.
func (s *Search) Restaurants(ctx context.Context, q RestaurantQuery) ([]models.RestaurantDoc, error) {
	if q.N < 1 {
		q.N = 5
	}

	results, err := s.restaurants.Query(ctx, q.Query, q.N, q.filter())
	if err != nil {
		return nil, err
	}

	if target := s.targetTime(q); target != "" {
		results = filterOpenAt(results, target)
	}

	return results, nil
}

func (s *Search) targetTime(q RestaurantQuery) string {
	if q.OpenAt != "" {
		return q.OpenAt
	}
	if q.OpenNow {
		return s.now().In(s.loc).Format("15:04")
	}

	return ""
}

// filterOpenAt keeps restaurants whose opening window contains target.
// Comparison is string-lexicographic on zero-padded HH:MM, which orders the
// same as time of day. Restaurants with unknown hours are excluded, never
// treated as always open.
func filterOpenAt(results []models.RestaurantDoc, target string) []models.RestaurantDoc {
	filtered := make([]models.RestaurantDoc, 0, len(results))
	for _, r := range results {
		if r.OpeningTime == "" || r.ClosingTime == "" {
			continue
		}
		if r.OpeningTime <= target && target <= r.ClosingTime {
			filtered = append(filtered, r)
		}
	}

	return filtered
}

// DishQuery carries the optional filters for a dish search.
type DishQuery struct {
	Query          string
	N              int
	RestaurantName *string
	Zone           *string
	PriceLevel     *string
	HasVegetarian  *bool
	HasVegan       *bool
	HasGlutenFree  *bool
	HasHalal       *bool
	HasLactoseFree *bool
	Category       *string
}

func (q DishQuery) filter() store.Filter {
	var f store.Filter
	if q.RestaurantName != nil {
		f = append(f, store.Cond{Column: "restaurant_name", Value: *q.RestaurantName})
	}
	if q.Zone != nil {
		f = append(f, store.Cond{Column: "zone", Value: *q.Zone})
	}
	if q.PriceLevel != nil {
		f = append(f, store.Cond{Column: "price_level", Value: *q.PriceLevel})
	}
	if q.HasVegetarian != nil {
		f = append(f, store.Cond{Column: "has_vegetarian", Value: *q.HasVegetarian})
	}
	if q.HasVegan != nil {
		f = append(f, store.Cond{Column: "has_vegan", Value: *q.HasVegan})
	}
	if q.HasGlutenFree != nil {
		f = append(f, store.Cond{Column: "has_gluten_free", Value: *q.HasGlutenFree})
	}
	if q.HasHalal != nil {
		f = append(f, store.Cond{Column: "has_halal", Value: *q.HasHalal})
	}
	if q.HasLactoseFree != nil {
		f = append(f, store.Cond{Column: "has_lactose_free", Value: *q.HasLactoseFree})
	}
	if q.Category != nil {
		f = append(f, store.Cond{Column: "category", Value: *q.Category})
	}

	return f
}

// DishGroup is one restaurant's slice of a dish result set.
type DishGroup struct {
	RestaurantName string
	Zone           string
	Dishes         []models.DishDoc
}

// Dishes runs a filtered dish search and groups the results by owning
// restaurant, preserving relevance order within each group and first-seen
// order across groups.
func (s *Search) Dishes(ctx context.Context, q DishQuery) ([]DishGroup, error) {
	if q.N < 1 {
		q.N = 5
	}

	results, err := s.dishes.Query(ctx, q.Query, q.N, q.filter())
	if err != nil {
		return nil, err
	}

	return groupByRestaurant(results), nil
}

func groupByRestaurant(results []models.DishDoc) []DishGroup {
	var groups []DishGroup
	index := make(map[string]int)

	for _, d := range results {
		i, seen := index[d.RestaurantName]
		if !seen {
			i = len(groups)
			index[d.RestaurantName] = i
			groups = append(groups, DishGroup{
				RestaurantName: d.RestaurantName,
				Zone:           d.Zone,
			})
		}
		groups[i].Dishes = append(groups[i].Dishes, d)
	}

	return groups
}

// Restaurant is an exact lookup by id, bypassing similarity ranking.
func (s *Search) Restaurant(ctx context.Context, id uint64) (*models.RestaurantDoc, error) {
	return s.restaurants.GetByID(ctx, id)
}

// Dish is an exact lookup by composite key, bypassing similarity ranking.
func (s *Search) Dish(ctx context.Context, restaurantID, dishID uint64) (*models.DishDoc, error) {
	return s.dishes.Get(ctx, restaurantID, dishID)
}

// RestaurantByName is an exact lookup bypassing similarity ranking.
func (s *Search) RestaurantByName(ctx context.Context, name string) (*models.RestaurantDoc, error) {
	return s.restaurants.GetByName(ctx, name)
}

// AvailableZones returns the distinct non-empty zones of the last-loaded
// restaurant table, sorted ascending; empty before the first load.
func (s *Search) AvailableZones() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return distinct(s.restaurantTable, func(r models.Restaurant) string { return r.Zone })
}

// AvailablePriceLevels returns the distinct non-empty price levels of the
// last-loaded restaurant table, sorted ascending; empty before the first
// load.
func (s *Search) AvailablePriceLevels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return distinct(s.restaurantTable, func(r models.Restaurant) string { return r.PriceLevel })
}

func distinct(restaurants []models.Restaurant, field func(models.Restaurant) string) []string {
	seen := make(map[string]bool)
	values := []string{}
	for _, r := range restaurants {
		v := field(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)

	return values
}
