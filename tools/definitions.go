package tools

import "github.com/tmc/langchaingo/llms"

// Definitions returns the tool declarations handed to the chat model. The
// descriptions carry the trigger conditions; the model picks a tool by
// description match.
func Definitions() []llms.Tool {
	return []llms.Tool{
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name: SearchRestaurantsTool,
				Description: "Search for restaurants in the mall based on user preferences. " +
					"Returns restaurant descriptions, cuisine types, dietary options, menu highlights, " +
					"location zone, services, hours and contact details. " +
					"Use for general recommendations like 'Italian food', 'cheap lunch' or 'somewhere in the north zone'.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{
							"type":        "string",
							"description": "Natural language search query, e.g. 'Italian food', 'gluten free', 'cheap lunch'",
						},
						"n_results": map[string]any{
							"type":        "integer",
							"description": "Number of results to return, default 3",
						},
						"price_level": map[string]any{
							"type": "string",
							"enum": []string{"low", "medium", "high"},
						},
						"zone": map[string]any{
							"type": "string",
							"enum": []string{"north", "center", "south"},
						},
						"has_vegetarian":     map[string]any{"type": "boolean"},
						"has_vegan":          map[string]any{"type": "boolean"},
						"has_gluten_free":    map[string]any{"type": "boolean"},
						"has_takeaway":       map[string]any{"type": "boolean"},
						"has_bar":            map[string]any{"type": "boolean"},
						"has_menu":           map[string]any{"type": "boolean"},
						"allow_reservations": map[string]any{"type": "boolean"},
						"open_now": map[string]any{
							"type":        "boolean",
							"description": "Only restaurants currently open",
						},
						"open_at_time": map[string]any{
							"type":        "string",
							"description": "Only restaurants open at this time, format HH:MM, e.g. '14:30'",
						},
					},
					"required": []string{"query"},
				},
			},
		},
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name: SearchDishesTool,
				Description: "Search for specific dishes across all restaurants in the mall. " +
					"Use when the user asks about a dish ('pasta', 'vegan burger', 'tiramisu') rather than " +
					"a restaurant. Returns dishes with the restaurant and zone where each is available.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{
							"type":        "string",
							"description": "Natural language dish query, e.g. 'carbonara', 'vegan burger'",
						},
						"n_results": map[string]any{
							"type":        "integer",
							"description": "Number of results to return, default 5",
						},
						"restaurant_name": map[string]any{
							"type":        "string",
							"description": "Restrict to one restaurant by exact name",
						},
						"zone": map[string]any{
							"type": "string",
							"enum": []string{"north", "center", "south"},
						},
						"price_level": map[string]any{
							"type": "string",
							"enum": []string{"low", "medium", "high"},
						},
						"has_vegetarian":   map[string]any{"type": "boolean"},
						"has_vegan":        map[string]any{"type": "boolean"},
						"has_gluten_free":  map[string]any{"type": "boolean"},
						"has_halal":        map[string]any{"type": "boolean"},
						"has_lactose_free": map[string]any{"type": "boolean"},
						"category": map[string]any{
							"type":        "string",
							"description": "Dish category filter",
						},
					},
					"required": []string{"query"},
				},
			},
		},
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name: GetWalkingTimeTool,
				Description: "Calculate walking time in minutes between two restaurants in the mall, " +
					"rounded to one decimal. Walking speed is calibrated to mall conditions.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"from_restaurant": map[string]any{
							"type":        "string",
							"description": "Name of the starting restaurant",
						},
						"to_restaurant": map[string]any{
							"type":        "string",
							"description": "Name of the destination restaurant",
						},
					},
					"required": []string{"from_restaurant", "to_restaurant"},
				},
			},
		},
	}
}
