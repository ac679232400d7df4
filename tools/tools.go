// Package tools exposes the search facade to a tool-calling chat model as
// three callable functions. Each tool parses its JSON arguments, queries the
// facade and renders a delimited text block the model can quote from.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/avives/mall-dining-rag/search"
	"github.com/avives/mall-dining-rag/store"
)

const (
	SearchRestaurantsTool = "search_restaurants"
	SearchDishesTool      = "search_dishes"
	GetWalkingTimeTool    = "get_walking_time"

	defaultRestaurantResults = 3
	defaultDishResults       = 5
)

// Toolkit binds the tools to one injected facade; there is no package-level
// instance.
type Toolkit struct {
	search *search.Search
}

func NewToolkit(s *search.Search) *Toolkit {
	return &Toolkit{search: s}
}

// Dispatch routes one tool call by name. Unknown tools are an error; tool
// execution problems are returned as user-visible text, not errors, so the
// model can relay them.
func (t *Toolkit) Dispatch(ctx context.Context, name, arguments string) (string, error) {
	switch name {
	case SearchRestaurantsTool:
		return t.SearchRestaurants(ctx, arguments)
	case SearchDishesTool:
		return t.SearchDishes(ctx, arguments)
	case GetWalkingTimeTool:
		return t.GetWalkingTime(ctx, arguments)
	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}

// strArg downgrades an explicitly empty string argument to unset. Chat
// models routinely fill optional string parameters with "" instead of
// omitting them, and a literal `column = ''` predicate matches nothing.
func strArg(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}

type searchRestaurantsArgs struct {
	Query             string  `json:"query"`
	NResults          int     `json:"n_results"`
	PriceLevel        *string `json:"price_level"`
	Zone              *string `json:"zone"`
	HasVegetarian     *bool   `json:"has_vegetarian"`
	HasVegan          *bool   `json:"has_vegan"`
	HasGlutenFree     *bool   `json:"has_gluten_free"`
	HasTakeaway       *bool   `json:"has_takeaway"`
	HasBar            *bool   `json:"has_bar"`
	HasMenu           *bool   `json:"has_menu"`
	AllowReservations *bool   `json:"allow_reservations"`
	OpenNow           bool    `json:"open_now"`
	OpenAtTime        string  `json:"open_at_time"`
}

func (t *Toolkit) SearchRestaurants(ctx context.Context, arguments string) (string, error) {
	var args searchRestaurantsArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid search_restaurants arguments: %w", err)
	}
	if args.NResults < 1 {
		args.NResults = defaultRestaurantResults
	}

	results, err := t.search.Restaurants(ctx, search.RestaurantQuery{
		Query:             args.Query,
		N:                 args.NResults,
		PriceLevel:        strArg(args.PriceLevel),
		Zone:              strArg(args.Zone),
		HasVegetarian:     args.HasVegetarian,
		HasVegan:          args.HasVegan,
		HasGlutenFree:     args.HasGlutenFree,
		HasTakeaway:       args.HasTakeaway,
		HasBar:            args.HasBar,
		HasMenu:           args.HasMenu,
		AllowReservations: args.AllowReservations,
		OpenNow:           args.OpenNow,
		OpenAt:            args.OpenAtTime,
	})
	if err != nil {
		return "", fmt.Errorf("restaurant search failed: %w", err)
	}

	var b strings.Builder
	b.WriteString("<valid>\n")
	for _, r := range results {
		b.WriteString(fmt.Sprintf("\n## %s\n", r.Name))
		b.WriteString(r.Document + "\n")
		if r.Phone != "" {
			b.WriteString(fmt.Sprintf("Phone: %s\n", r.Phone))
		}
		if r.WebsiteURL != "" {
			b.WriteString(fmt.Sprintf("Website: %s\n", r.WebsiteURL))
		}
	}
	b.WriteString("</valid>")

	return b.String(), nil
}

type searchDishesArgs struct {
	Query          string  `json:"query"`
	NResults       int     `json:"n_results"`
	RestaurantName *string `json:"restaurant_name"`
	Zone           *string `json:"zone"`
	PriceLevel     *string `json:"price_level"`
	HasVegetarian  *bool   `json:"has_vegetarian"`
	HasVegan       *bool   `json:"has_vegan"`
	HasGlutenFree  *bool   `json:"has_gluten_free"`
	HasHalal       *bool   `json:"has_halal"`
	HasLactoseFree *bool   `json:"has_lactose_free"`
	Category       *string `json:"category"`
}

func (t *Toolkit) SearchDishes(ctx context.Context, arguments string) (string, error) {
	var args searchDishesArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid search_dishes arguments: %w", err)
	}
	if args.NResults < 1 {
		args.NResults = defaultDishResults
	}

	groups, err := t.search.Dishes(ctx, search.DishQuery{
		Query:          args.Query,
		N:              args.NResults,
		RestaurantName: strArg(args.RestaurantName),
		Zone:           strArg(args.Zone),
		PriceLevel:     strArg(args.PriceLevel),
		HasVegetarian:  args.HasVegetarian,
		HasVegan:       args.HasVegan,
		HasGlutenFree:  args.HasGlutenFree,
		HasHalal:       args.HasHalal,
		HasLactoseFree: args.HasLactoseFree,
		Category:       strArg(args.Category),
	})
	if err != nil {
		return "", fmt.Errorf("dish search failed: %w", err)
	}

	var b strings.Builder
	b.WriteString("<valid>\n")
	for _, group := range groups {
		name := group.RestaurantName
		if name == "" {
			name = "Unknown"
		}
		b.WriteString(fmt.Sprintf("\n## At %s", name))
		if group.Zone != "" {
			b.WriteString(fmt.Sprintf(" (%s zone)", group.Zone))
		}
		b.WriteString("\n")

		for _, d := range group.Dishes {
			b.WriteString(fmt.Sprintf("- %s\n", d.Document))
		}
	}
	b.WriteString("</valid>")

	return b.String(), nil
}

type walkingTimeArgs struct {
	FromRestaurant string `json:"from_restaurant"`
	ToRestaurant   string `json:"to_restaurant"`
}

func (t *Toolkit) GetWalkingTime(ctx context.Context, arguments string) (string, error) {
	var args walkingTimeArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid get_walking_time arguments: %w", err)
	}

	minutes, err := t.search.WalkingTime(ctx, args.FromRestaurant, args.ToRestaurant)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "Restaurant not found", nil
		}

		return "", fmt.Errorf("walking time failed: %w", err)
	}

	return fmt.Sprintf("<valid>\nWalking time from %s to %s: %.1f minutes\n</valid>",
		args.FromRestaurant, args.ToRestaurant, minutes), nil
}
