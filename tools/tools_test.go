package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/avives/mall-dining-rag/models"
	"github.com/avives/mall-dining-rag/search"
	"github.com/avives/mall-dining-rag/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRestaurantIndex struct {
	results []models.RestaurantDoc
	lastK   int
	filter  store.Filter
}

func (s *stubRestaurantIndex) Index(context.Context, []models.RestaurantDoc, bool) error {
	return nil
}

func (s *stubRestaurantIndex) Query(_ context.Context, _ string, k int, filter store.Filter) ([]models.RestaurantDoc, error) {
	s.lastK = k
	s.filter = filter
	if len(s.results) > k {
		return s.results[:k], nil
	}
	return s.results, nil
}

func (s *stubRestaurantIndex) GetByID(context.Context, uint64) (*models.RestaurantDoc, error) {
	return nil, store.ErrNotFound
}

func (s *stubRestaurantIndex) GetByName(_ context.Context, name string) (*models.RestaurantDoc, error) {
	for i := range s.results {
		if s.results[i].Name == name {
			return &s.results[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubRestaurantIndex) Count(context.Context) (int64, error) {
	return int64(len(s.results)), nil
}

type stubDishIndex struct {
	results []models.DishDoc
	filter  store.Filter
}

func (s *stubDishIndex) Index(context.Context, []models.DishDoc, bool) error { return nil }

func (s *stubDishIndex) Query(_ context.Context, _ string, k int, filter store.Filter) ([]models.DishDoc, error) {
	s.filter = filter
	if len(s.results) > k {
		return s.results[:k], nil
	}
	return s.results, nil
}

func (s *stubDishIndex) Get(context.Context, uint64, uint64) (*models.DishDoc, error) {
	return nil, store.ErrNotFound
}

func (s *stubDishIndex) Count(context.Context) (int64, error) {
	return int64(len(s.results)), nil
}

type stubLoader struct{}

func (stubLoader) Load(context.Context, string) ([]models.Restaurant, []models.Dish, error) {
	return nil, nil, nil
}

func newToolkit(t *testing.T, r search.RestaurantIndex, d search.DishIndex) *Toolkit {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	return NewToolkit(search.New(r, d, stubLoader{}, loc))
}

func TestSearchRestaurantsFormatting(t *testing.T) {
	r := &stubRestaurantIndex{results: []models.RestaurantDoc{
		{
			Name:       "Dino",
			Document:   "Dino is a medium-priced restaurant",
			Phone:      "+34 938 000 000",
			WebsiteURL: "https://dino.example",
		},
		{
			Name:     "Foodies",
			Document: "Foodies is a low-priced restaurant",
		},
	}}
	tk := newToolkit(t, r, &stubDishIndex{})

	out, err := tk.SearchRestaurants(context.Background(), `{"query": "italian"}`)
	require.NoError(t, err)

	assert.True(t, len(out) > 0)
	assert.Contains(t, out, "<valid>")
	assert.Contains(t, out, "</valid>")
	assert.Contains(t, out, "## Dino")
	assert.Contains(t, out, "Phone: +34 938 000 000")
	assert.Contains(t, out, "Website: https://dino.example")
	assert.Contains(t, out, "## Foodies")
	assert.NotContains(t, out, "Phone: \n", "absent contact info adds no line")
	assert.Equal(t, 3, r.lastK, "default n_results is 3")
}

func TestSearchRestaurantsFilterArgs(t *testing.T) {
	r := &stubRestaurantIndex{}
	tk := newToolkit(t, r, &stubDishIndex{})

	_, err := tk.SearchRestaurants(context.Background(),
		`{"query": "gluten free", "n_results": 3, "has_gluten_free": true}`)
	require.NoError(t, err)

	assert.Equal(t, store.Filter{{Column: "has_gluten_free", Value: true}}, r.filter)
}

func TestSearchRestaurantsEmptyStringArgsUnset(t *testing.T) {
	r := &stubRestaurantIndex{}
	tk := newToolkit(t, r, &stubDishIndex{})

	_, err := tk.SearchRestaurants(context.Background(),
		`{"query": "pizza", "zone": "", "price_level": ""}`)
	require.NoError(t, err)

	assert.Empty(t, r.filter, "empty string arguments must not become predicates")
}

func TestSearchDishesEmptyStringArgsUnset(t *testing.T) {
	d := &stubDishIndex{}
	tk := newToolkit(t, &stubRestaurantIndex{}, d)

	_, err := tk.SearchDishes(context.Background(),
		`{"query": "pizza", "restaurant_name": "", "zone": "", "price_level": "", "category": ""}`)
	require.NoError(t, err)

	assert.Empty(t, d.filter)
}

func TestSearchRestaurantsEmptyResult(t *testing.T) {
	tk := newToolkit(t, &stubRestaurantIndex{}, &stubDishIndex{})

	out, err := tk.SearchRestaurants(context.Background(), `{"query": "nothing"}`)
	require.NoError(t, err)

	assert.Equal(t, "<valid>\n</valid>", out)
}

func TestSearchRestaurantsBadArguments(t *testing.T) {
	tk := newToolkit(t, &stubRestaurantIndex{}, &stubDishIndex{})

	_, err := tk.SearchRestaurants(context.Background(), `not json`)
	assert.Error(t, err)
}

func TestSearchDishesGrouping(t *testing.T) {
	d := &stubDishIndex{results: []models.DishDoc{
		{RestaurantName: "Starbucks", Zone: "center", Document: "Caramel latte"},
		{RestaurantName: "Starbucks", Zone: "center", Document: "Blueberry muffin"},
	}}
	tk := newToolkit(t, &stubRestaurantIndex{}, d)

	out, err := tk.SearchDishes(context.Background(), `{"query": "coffee", "restaurant_name": "Starbucks"}`)
	require.NoError(t, err)

	assert.Contains(t, out, "## At Starbucks (center zone)")
	assert.Equal(t, 1, strings.Count(out, "## At Starbucks"), "one heading per restaurant")
	assert.Contains(t, out, "- Caramel latte")
	assert.Contains(t, out, "- Blueberry muffin")
	assert.Equal(t, store.Filter{{Column: "restaurant_name", Value: "Starbucks"}}, d.filter)
}

func TestSearchDishesZoneOmittedWhenUnknown(t *testing.T) {
	d := &stubDishIndex{results: []models.DishDoc{
		{RestaurantName: "Foodies", Document: "Fries"},
	}}
	tk := newToolkit(t, &stubRestaurantIndex{}, d)

	out, err := tk.SearchDishes(context.Background(), `{"query": "fries"}`)
	require.NoError(t, err)

	assert.Contains(t, out, "## At Foodies\n")
	assert.NotContains(t, out, "( zone)")
}

func TestSearchDishesUnknownRestaurantHeading(t *testing.T) {
	d := &stubDishIndex{results: []models.DishDoc{
		{Document: "Mystery stew"},
	}}
	tk := newToolkit(t, &stubRestaurantIndex{}, d)

	out, err := tk.SearchDishes(context.Background(), `{"query": "stew"}`)
	require.NoError(t, err)

	assert.Contains(t, out, "## At Unknown\n")
}

func TestGetWalkingTime(t *testing.T) {
	r := &stubRestaurantIndex{results: []models.RestaurantDoc{
		{Name: "Andreu", Location: models.NewGeoPoint(2.345123, 41.613362)},
		{Name: "Dino", Location: models.NewGeoPoint(2.344400, 41.611700)},
	}}
	tk := newToolkit(t, r, &stubDishIndex{})

	out, err := tk.GetWalkingTime(context.Background(),
		`{"from_restaurant": "Andreu", "to_restaurant": "Dino"}`)
	require.NoError(t, err)

	assert.Contains(t, out, "<valid>")
	assert.Contains(t, out, "Walking time from Andreu to Dino:")
	assert.Regexp(t, `\d+\.\d minutes`, out)
}

func TestGetWalkingTimeNotFound(t *testing.T) {
	tk := newToolkit(t, &stubRestaurantIndex{}, &stubDishIndex{})

	out, err := tk.GetWalkingTime(context.Background(),
		`{"from_restaurant": "Ghost", "to_restaurant": "Dino"}`)
	require.NoError(t, err)

	assert.Equal(t, "Restaurant not found", out)
}

func TestDispatch(t *testing.T) {
	tk := newToolkit(t, &stubRestaurantIndex{}, &stubDishIndex{})

	out, err := tk.Dispatch(context.Background(), SearchRestaurantsTool, `{"query": "q"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "<valid>")

	_, err = tk.Dispatch(context.Background(), "no_such_tool", `{}`)
	assert.Error(t, err)
}
