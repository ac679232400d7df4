package loader

// zoneInfo is a static geo patch for the mall directory. The source workbook
// predates the zone rollout, so known restaurants get their zone and
// coordinates filled from this table, keyed by restaurant name. Restaurants
// missing here keep an empty zone and the zero location, which excludes them
// from walking-time queries.
type zoneInfo struct {
	Zone string
	Lat  float64
	Lng  float64
}

var zoneData = map[string]zoneInfo{
	"Andreu":               {Zone: "north", Lat: 41.613362, Lng: 2.345123},
	"Atmósferas Mordisco":  {Zone: "center", Lat: 41.610738, Lng: 2.343823},
	"Corso Iluzione":       {Zone: "south", Lat: 41.608389, Lng: 2.342116},
	"Centric":              {Zone: "north", Lat: 41.611688, Lng: 2.344386},
	"Dino":                 {Zone: "north", Lat: 41.611700, Lng: 2.344400},
	"Farggi 1957":          {Zone: "south", Lat: 41.608412, Lng: 2.342555},
	"Mori by Parco":        {Zone: "north", Lat: 41.612212, Lng: 2.345061},
	"Starbucks":            {Zone: "center", Lat: 41.610216, Lng: 2.343253},
	"Waff (Ice Pops)":      {Zone: "center", Lat: 41.609468, Lng: 2.342820},
	"Lindt":                {Zone: "center", Lat: 41.610858, Lng: 2.344183},
	"Fire & Bread":         {Zone: "center", Lat: 41.610417, Lng: 2.343262},
	"Gasso":                {Zone: "south", Lat: 41.608751, Lng: 2.342281},
	"Izky Noodles":         {Zone: "south", Lat: 41.609422, Lng: 2.342783},
	"Rocambolesc":          {Zone: "north", Lat: 41.611882, Lng: 2.344658},
}
