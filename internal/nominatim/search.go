package nominatim

import (
	"strconv"
	"strings"
)

// FeatureTypes accepted by Search.FeatureType.
var FeatureTypes = []string{"country", "state", "city", "settlement"}

// Search builds a /search request, either free-form (Q) or structured.
type Search struct {
	placeBuilder[*Search]
}

func newSearch() *Search {
	s := &Search{}
	s.init(s, "search")
	return s
}

// Q sets the free-form query text.
func (s *Search) Q(text string) *Search {
	return s.text("q", text)
}

func (s *Search) Amenity(name string) *Search    { return s.text("amenity", name) }
func (s *Search) Street(street string) *Search   { return s.text("street", street) }
func (s *Search) City(city string) *Search       { return s.text("city", city) }
func (s *Search) County(county string) *Search   { return s.text("county", county) }
func (s *Search) State(state string) *Search     { return s.text("state", state) }
func (s *Search) Country(country string) *Search { return s.text("country", country) }
func (s *Search) PostalCode(code string) *Search { return s.text("postalcode", code) }

// CountryCodes restricts results to the given ISO 3166-1 alpha-2 codes.
func (s *Search) CountryCodes(codes ...string) *Search {
	if len(codes) == 0 {
		s.fail("countrycodes", codes, "must not be empty")
		return s
	}
	cleaned := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if !s.check("countrycodes", strings.ToUpper(code), "iso3166_1_alpha2", "must be ISO 3166-1 alpha-2 codes") {
			return s
		}
		cleaned = append(cleaned, strings.ToLower(code))
	}
	s.query.Set("countrycodes", strings.Join(cleaned, ","))
	return s
}

// ViewBox biases results towards the rectangle given by two opposite corners.
// Combine with Bounded(true) to restrict results to it.
func (s *Search) ViewBox(left, top, right, bottom float64) *Search {
	box := []float64{left, top, right, bottom}
	switch {
	case !validLongitude(left) || !validLongitude(right):
		s.fail("viewbox", box, "longitudes must be within [-180, 180]")
	case !validLatitude(top) || !validLatitude(bottom):
		s.fail("viewbox", box, "latitudes must be within [-90, 90]")
	case left == right || top == bottom:
		s.fail("viewbox", box, "must span a non-empty area")
	default:
		s.query.Set("viewbox", strings.Join([]string{
			formatFloat(left), formatFloat(top), formatFloat(right), formatFloat(bottom),
		}, ","))
	}
	return s
}

func (s *Search) Bounded(enabled bool) *Search {
	s.setFlag("bounded", enabled)
	return s
}

// Limit caps the number of returned results.
func (s *Search) Limit(limit int) *Search {
	if s.check("limit", limit, "gte=1", "must be a positive integer") {
		s.query.Set("limit", strconv.Itoa(limit))
	}
	return s
}

// ExcludePlaceIDs skips the given places, typically results of an earlier page.
func (s *Search) ExcludePlaceIDs(ids ...int64) *Search {
	if len(ids) == 0 {
		s.fail("exclude_place_ids", ids, "must not be empty")
		return s
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if !s.check("exclude_place_ids", id, "gt=0", "must be positive place ids") {
			return s
		}
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	s.query.Set("exclude_place_ids", strings.Join(parts, ","))
	return s
}

func (s *Search) Dedupe(enabled bool) *Search {
	s.setFlag("dedupe", enabled)
	return s
}

func (s *Search) Layer(layers ...string) *Search {
	s.setLayers(layers)
	return s
}

func (s *Search) FeatureType(featureType string) *Search {
	if s.check("featureType", featureType, "oneof="+strings.Join(FeatureTypes, " "), "must be one of "+strings.Join(FeatureTypes, ", ")) {
		s.query.Set("featureType", featureType)
	}
	return s
}

func (s *Search) text(param, value string) *Search {
	value = strings.TrimSpace(value)
	if s.check(param, value, "required", "must not be empty") {
		s.query.Set(param, value)
	}
	return s
}
