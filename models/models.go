package models

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Location is a lon/lat point stored as a PostGIS geometry column.
// The zero value marks an unknown location.
type Location struct {
	Lon, Lat float64
}

func NewGeoPoint(lng, lat float64) Location {
	return Location{
		Lon: lng,
		Lat: lat,
	}
}

func (g *Location) IsZero() bool {
	return g.Lon == 0 && g.Lat == 0
}

func (g *Location) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case string:
		var err error
		data, err = hex.DecodeString(v)
		if err != nil {
			return err
		}
	case []byte:
		data = v
	default:
		return fmt.Errorf("expected string or []byte, got %T", value)
	}

	t, err := ewkb.Unmarshal(data)
	if err != nil {
		return err
	}

	if point, ok := t.(*geom.Point); ok {
		g.Lon = point.X()
		g.Lat = point.Y()

		return nil
	}

	return fmt.Errorf("expected Point, got %T", t)
}

func (loc Location) GormDataType() string {
	return "geometry"
}

func (loc Location) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	return clause.Expr{
		SQL:  "ST_PointFromText(?)",
		Vars: []interface{}{fmt.Sprintf("POINT(%f %f)", loc.Lon, loc.Lat)},
	}
}

// Restaurant is a normalized catalog row as produced by the loader.
type Restaurant struct {
	ID                uint64  `json:"id"`
	Name              string  `json:"name"`
	PriceLevel        string  `json:"price_level"`
	Zone              string  `json:"zone"`
	Lat               float64 `json:"lat"`
	Lng               float64 `json:"lng"`
	DescriptionLong   string  `json:"description_long"`
	DescriptionShort  string  `json:"description_short"`
	Cuisines          string  `json:"cuisines"`
	DietaryTags       string  `json:"dietary_tags"`
	Services          string  `json:"services"`
	OpeningHours      string  `json:"opening_hours"`
	HasMenu           bool    `json:"has_menu"`
	AllowReservations bool    `json:"allow_reservations"`
	Phone             string  `json:"phone"`
	WebsiteURL        string  `json:"website_url"`
}

// Dish is one dish row after the loader join, carrying the owning
// restaurant's name and zone so dish filters need no second lookup.
type Dish struct {
	RestaurantID   uint64  `json:"restaurant_id"`
	DishID         uint64  `json:"dish_id"`
	Weight         float64 `json:"weight"`
	UpdatedAt      string  `json:"updated_at"`
	Text           string  `json:"text"`
	DietaryTags    string  `json:"dietary_tags"`
	Category       string  `json:"category"`
	RestaurantName string  `json:"restaurant_name"`
	Zone           string  `json:"zone"`
}

// RestaurantDoc is one indexed restaurant document: the embedding text plus
// the flat metadata columns used for exact-match filtering.
type RestaurantDoc struct {
	ID                uint64          `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"uniqueIndex" json:"name"`
	Document          string          `json:"document"`
	Embedding         pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	PriceLevel        string          `json:"price_level"`
	Zone              string          `json:"zone"`
	Location          Location        `json:"location"`
	Cuisines          pq.StringArray  `gorm:"type:text[]" json:"cuisines"`
	HasVegetarian     bool            `json:"has_vegetarian"`
	HasVegan          bool            `json:"has_vegan"`
	HasGlutenFree     bool            `json:"has_gluten_free"`
	HasTakeaway       bool            `json:"has_takeaway"`
	HasBar            bool            `json:"has_bar"`
	HasMenu           bool            `json:"has_menu"`
	AllowReservations bool            `json:"allow_reservations"`
	Phone             string          `json:"phone"`
	WebsiteURL        string          `json:"website_url"`
	OpeningTime       string          `json:"opening_time"`
	ClosingTime       string          `json:"closing_time"`

	Distance float64 `gorm:"->;-:migration" json:"distance,omitempty"`
}

func (r *RestaurantDoc) TableName() string {
	return "restaurant_docs"
}

// DishDoc is one indexed dish document, keyed by (restaurant_id, dish_id).
// Restaurant name, zone and price level are denormalized for filtering.
type DishDoc struct {
	RestaurantID   uint64          `gorm:"primaryKey" json:"restaurant_id"`
	DishID         uint64          `gorm:"primaryKey" json:"dish_id"`
	Document       string          `json:"document"`
	Embedding      pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	Category       string          `json:"category"`
	Weight         float64         `json:"weight"`
	HasVegetarian  bool            `json:"has_vegetarian"`
	HasVegan       bool            `json:"has_vegan"`
	HasGlutenFree  bool            `json:"has_gluten_free"`
	HasHalal       bool            `json:"has_halal"`
	HasLactoseFree bool            `json:"has_lactose_free"`
	RestaurantName string          `json:"restaurant_name"`
	Zone           string          `json:"zone"`
	PriceLevel     string          `json:"price_level"`

	Distance float64 `gorm:"->;-:migration" json:"distance,omitempty"`
}

func (d *DishDoc) TableName() string {
	return "dish_docs"
}
