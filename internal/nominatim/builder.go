package nominatim

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

// Response formats understood by the search, reverse and lookup endpoints.
const (
	FormatXML         = "xml"
	FormatJSON        = "json"
	FormatJSONv2      = "jsonv2"
	FormatGeoJSON     = "geojson"
	FormatGeocodeJSON = "geocodejson"
)

// Formats lists every accepted value for Format.
var Formats = []string{FormatXML, FormatJSON, FormatJSONv2, FormatGeoJSON, FormatGeocodeJSON}

// PolygonKinds lists the outline kinds accepted by Polygon.
var PolygonKinds = []string{"geojson", "kml", "svg", "text"}

// Layers lists the values accepted by Layer on search and reverse.
var Layers = []string{"address", "poi", "railway", "natural", "manmade"}

// Request is one configured call to a Nominatim endpoint.
type Request interface {
	Endpoint() string
	HTTPMethod() string
	ResponseFormat() string
	Query() Query
	QueryString() string
	Err() error
}

// builder holds the state and setters every endpoint understands. T is the
// concrete builder type so that chained setters keep returning it.
type builder[T any] struct {
	self     T
	endpoint string
	method   string
	query    Query
	err      error
	// require reports a missing mandatory parameter once the setters are done.
	require func(q Query) error
}

func (b *builder[T]) init(self T, endpoint string) {
	b.self = self
	b.endpoint = endpoint
	b.method = http.MethodGet
}

// Format sets the response format.
func (b *builder[T]) Format(format string) T {
	if b.check("format", format, "oneof="+strings.Join(Formats, " "), "must be one of "+strings.Join(Formats, ", ")) {
		b.query.Set("format", format)
	}
	return b.self
}

// Method selects the HTTP method used to send the request. GET is the default.
func (b *builder[T]) Method(method string) T {
	method = strings.ToUpper(strings.TrimSpace(method))
	if b.check("method", method, "oneof=GET POST", "must be GET or POST") {
		b.method = method
	}
	return b.self
}

// placeBuilder adds the output options shared by search, reverse and lookup.
type placeBuilder[T any] struct {
	builder[T]
}

// AcceptLanguage sets the preferred result languages, e.g. "nl,en;q=0.5".
func (b *placeBuilder[T]) AcceptLanguage(lang string) T {
	b.setAcceptLanguage(lang)
	return b.self
}

func (b *placeBuilder[T]) AddressDetails(enabled bool) T {
	b.setFlag("addressdetails", enabled)
	return b.self
}

func (b *placeBuilder[T]) ExtraTags(enabled bool) T {
	b.setFlag("extratags", enabled)
	return b.self
}

func (b *placeBuilder[T]) NameDetails(enabled bool) T {
	b.setFlag("namedetails", enabled)
	return b.self
}

// Polygon requests the outline of each result in the given kind. Nominatim
// returns at most one polygon representation, so a later call replaces an
// earlier one.
func (b *placeBuilder[T]) Polygon(kind string) T {
	if !b.check("polygon", kind, "oneof="+strings.Join(PolygonKinds, " "), "must be one of "+strings.Join(PolygonKinds, ", ")) {
		return b.self
	}
	for _, other := range PolygonKinds {
		b.query.Del("polygon_" + other)
	}
	b.query.Set("polygon_"+kind, "1")
	return b.self
}

// PolygonThreshold simplifies returned polygons to the given tolerance in degrees.
func (b *placeBuilder[T]) PolygonThreshold(tolerance float64) T {
	if math.IsInf(tolerance, 0) {
		b.fail("polygon_threshold", tolerance, "must be a finite number")
		return b.self
	}
	if b.check("polygon_threshold", tolerance, "gte=0", "must not be negative") {
		b.query.Set("polygon_threshold", formatFloat(tolerance))
	}
	return b.self
}

// Email identifies the caller to the Nominatim operators.
func (b *placeBuilder[T]) Email(address string) T {
	b.setEmail(address)
	return b.self
}

func (b *placeBuilder[T]) Debug(enabled bool) T {
	b.setFlag("debug", enabled)
	return b.self
}

func (b *builder[T]) Endpoint() string { return b.endpoint }

func (b *builder[T]) HTTPMethod() string { return b.method }

// ResponseFormat returns the requested format, or "" when the server default applies.
func (b *builder[T]) ResponseFormat() string { return b.query.Get("format") }

// Query returns a copy of the accumulated parameters.
func (b *builder[T]) Query() Query { return b.query.Clone() }

// QueryString returns the form-urlencoded parameters in insertion order.
func (b *builder[T]) QueryString() string { return b.query.Encode() }

// Err returns the first constraint violation recorded by a setter, or the
// missing mandatory parameter when the request is incomplete.
func (b *builder[T]) Err() error {
	if b.err != nil {
		return b.err
	}
	if b.require != nil {
		return b.require(b.query)
	}
	return nil
}

func (b *builder[T]) check(param string, value interface{}, tag, reason string) bool {
	if err := validate.Var(value, tag); err != nil {
		b.fail(param, value, reason)
		return false
	}
	return true
}

func (b *builder[T]) fail(param string, value interface{}, reason string) {
	if b.err == nil {
		b.err = &InvalidParameterError{Param: param, Value: value, Reason: reason}
	}
}

func (b *builder[T]) setAcceptLanguage(lang string) {
	lang = strings.TrimSpace(lang)
	if b.check("accept-language", lang, "required", "must not be empty") {
		b.query.Set("accept-language", lang)
	}
}

func (b *builder[T]) setEmail(address string) {
	address = strings.TrimSpace(address)
	if b.check("email", address, "required,email", "must be a valid e-mail address") {
		b.query.Set("email", address)
	}
}

func (b *builder[T]) setList(param string, values []string, tag, reason string) {
	if len(values) == 0 {
		b.fail(param, values, "must not be empty")
		return
	}
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if !b.check(param, value, tag, reason) {
			return
		}
		cleaned = append(cleaned, value)
	}
	b.query.Set(param, strings.Join(cleaned, ","))
}

func (b *builder[T]) setLayers(layers []string) {
	b.setList("layer", layers, "oneof="+strings.Join(Layers, " "), "must be one of "+strings.Join(Layers, ", "))
}

func (b *builder[T]) setOsmType(param, osmType string) {
	osmType = strings.ToUpper(strings.TrimSpace(osmType))
	if b.check(param, osmType, "oneof=N W R", "must be N, W or R") {
		b.query.Set(param, osmType)
	}
}

func (b *builder[T]) setPositiveID(param string, id int64) {
	if b.check(param, id, "gt=0", "must be a positive integer") {
		b.query.Set(param, strconv.FormatInt(id, 10))
	}
}

func (b *builder[T]) setFlag(param string, enabled bool) {
	b.query.Set(param, flag(enabled))
}

func validLatitude(lat float64) bool {
	return validate.Var(lat, "gte=-90,lte=90") == nil
}

func validLongitude(lon float64) bool {
	return validate.Var(lon, "gte=-180,lte=180") == nil
}

func flag(enabled bool) string {
	if enabled {
		return "1"
	}
	return "0"
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
