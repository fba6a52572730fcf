package normalize

// Field profiles map provider payload shapes onto normalized records with
// JMESPath. Alternates (a || b) absorb the naming drift between providers;
// the synthetic generator emits the first-listed shape.

type flightProfile struct {
	ID          string
	Carrier     string
	FlightNo    string
	Price       string
	TravelClass string
	DepAirport  string
	DepTime     string
	DepTerminal string
	ArrAirport  string
	ArrTime     string
	ArrTerminal string
	Duration    string
	Stops       string
	Layovers    string
	LogoURL     string
	Direction   string
}

var defaultFlightProfile = flightProfile{
	ID:          "flight_id || id",
	Carrier:     "airline || carrier",
	FlightNo:    "flight_number || flight_no",
	Price:       "price || total_price",
	TravelClass: "travel_class || cabin_class",
	DepAirport:  "departure.airport || origin",
	DepTime:     "departure.time || departure_time",
	DepTerminal: "departure.terminal",
	ArrAirport:  "arrival.airport || destination",
	ArrTime:     "arrival.time || arrival_time",
	ArrTerminal: "arrival.terminal",
	Duration:    "duration_hours",
	Stops:       "stops",
	Layovers:    "layovers",
	LogoURL:     "logo_url || airline_logo",
	Direction:   "direction",
}

type lodgingProfile struct {
	ID          string
	Name        string
	NightlyRate string
	TotalCost   string
	Rating      string
	ReviewCount string
	Amenities   string
	RoomType    string
	Address     string
	City        string
	Distance    string
	Lat         string
	Lng         string
	ImageURL    string
}

var defaultLodgingProfile = lodgingProfile{
	ID:          "hotel_id || id",
	Name:        "name",
	NightlyRate: "price_per_night || nightly_rate",
	TotalCost:   "total_price || total_cost",
	Rating:      "rating",
	ReviewCount: "review_count",
	Amenities:   "amenities",
	RoomType:    "type || room_type",
	Address:     "location.address || address",
	City:        "location.city || city",
	Distance:    "location.distance_to_center",
	Lat:         "location.coordinates.lat || location.lat",
	Lng:         "location.coordinates.lng || location.lng",
	ImageURL:    "images[0] || image_url",
}

type activityProfile struct {
	ID          string
	Name        string
	Kind        string
	Tags        string
	Description string
	EntryFee    string
	Rating      string
	Duration    string
	Date        string
	Address     string
	Lat         string
	Lng         string
}

var defaultActivityProfile = activityProfile{
	ID:          "activity_id || id",
	Name:        "name",
	Kind:        "category || kind",
	Tags:        "tags",
	Description: "description",
	EntryFee:    "price || entry_fee",
	Rating:      "rating",
	Duration:    "duration_hours",
	Date:        "date",
	Address:     "address || location.address",
	Lat:         "location.lat || lat",
	Lng:         "location.lng || lng",
}

type weatherProfile struct {
	Date         string
	Condition    string
	TempHigh     string
	TempLow      string
	Humidity     string
	PrecipChance string
	WindSpeed    string
	Notes        string
}

var defaultWeatherProfile = weatherProfile{
	Date:         "date",
	Condition:    "condition",
	TempHigh:     "temp_high || temperature.high",
	TempLow:      "temp_low || temperature.low",
	Humidity:     "humidity",
	PrecipChance: "precipitation_chance",
	WindSpeed:    "wind_speed",
	Notes:        "notes || provider_notes",
}
