package routing

import "encoding/json"

// The directions payload is decoded level by level: routes, legs and steps stay
// raw until each node is unmarshalled on its own, so one malformed entry can be
// skipped without discarding its siblings.

// ComputeRoutesResponse is the top level of a computeRoutes reply.
type ComputeRoutesResponse struct {
	Routes           []json.RawMessage `json:"routes"`
	GeocodingResults GeocodingResults  `json:"geocodingResults"`
}

// GeocodingResults carries the place IDs the API resolved for the endpoints.
type GeocodingResults struct {
	Origin      GeocodedWaypoint `json:"origin"`
	Destination GeocodedWaypoint `json:"destination"`
}

type GeocodedWaypoint struct {
	PlaceID string `json:"placeId"`
}

// Route is one alternative route.
type Route struct {
	Legs []json.RawMessage `json:"legs"`
}

// Leg is one leg of a route.
type Leg struct {
	Steps []json.RawMessage `json:"steps"`
}

// Step is one step of a leg; TransitDetails is nil for walking steps.
type Step struct {
	TransitDetails *TransitDetails `json:"transitDetails"`
}

// TransitDetails describes the ride taken during a transit step.
type TransitDetails struct {
	TransitLine     TransitLine     `json:"transitLine"`
	StopDetails     StopDetails     `json:"stopDetails"`
	LocalizedValues LocalizedValues `json:"localizedValues"`
}

type TransitLine struct {
	Agencies  []Agency `json:"agencies"`
	NameShort string   `json:"nameShort"`
}

type Agency struct {
	Name string `json:"name"`
}

// StopDetails holds the endpoint stops and raw ISO-8601 times of a ride.
type StopDetails struct {
	DepartureStop Stop   `json:"departureStop"`
	ArrivalStop   Stop   `json:"arrivalStop"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
}

type Stop struct {
	Name string `json:"name"`
}

// LocalizedValues holds display-ready time text in the requested language.
type LocalizedValues struct {
	DepartureTime LocalizedTime `json:"departureTime"`
	ArrivalTime   LocalizedTime `json:"arrivalTime"`
}

type LocalizedTime struct {
	Time LocalizedText `json:"time"`
}

type LocalizedText struct {
	Text string `json:"text"`
}

// Operator returns the first agency name, the convention for display.
func (l TransitLine) Operator() string {
	if len(l.Agencies) == 0 {
		return ""
	}
	return l.Agencies[0].Name
}

// DepartureDisplay returns localized departure text, falling back to the raw
// ISO timestamp when the API sent no localized value.
func (d TransitDetails) DepartureDisplay() string {
	if text := d.LocalizedValues.DepartureTime.Time.Text; text != "" {
		return text
	}
	return d.StopDetails.DepartureTime
}

// ArrivalDisplay is the arrival-side counterpart of DepartureDisplay.
func (d TransitDetails) ArrivalDisplay() string {
	if text := d.LocalizedValues.ArrivalTime.Time.Text; text != "" {
		return text
	}
	return d.StopDetails.ArrivalTime
}
