package nominatim

import "strings"

// Details builds a /details request for a single place, identified either by
// PlaceID or by OsmType and OsmID.
type Details struct {
	builder[*Details]
}

func newDetails() *Details {
	d := &Details{}
	d.init(d, "details")
	d.require = func(q Query) error {
		if q.Has("place_id") || (q.Has("osmtype") && q.Has("osmid")) {
			return nil
		}
		return &InvalidParameterError{Param: "place_id", Reason: "a place id or an OSM type and id are required"}
	}
	return d
}

// Format overrides the shared setter: /details only answers in json.
func (d *Details) Format(format string) *Details {
	if d.check("format", format, "oneof="+FormatJSON, "must be json") {
		d.query.Set("format", format)
	}
	return d
}

// AcceptLanguage sets the preferred languages for names and addresses.
func (d *Details) AcceptLanguage(lang string) *Details {
	d.setAcceptLanguage(lang)
	return d
}

func (d *Details) AddressDetails(enabled bool) *Details {
	d.setFlag("addressdetails", enabled)
	return d
}

func (d *Details) Email(address string) *Details {
	d.setEmail(address)
	return d
}

func (d *Details) PlaceID(id int64) *Details {
	d.setPositiveID("place_id", id)
	return d
}

func (d *Details) OsmType(osmType string) *Details {
	d.setOsmType("osmtype", osmType)
	return d
}

func (d *Details) OsmID(id int64) *Details {
	d.setPositiveID("osmid", id)
	return d
}

// Class disambiguates OSM objects that map to several places.
func (d *Details) Class(class string) *Details {
	class = strings.TrimSpace(class)
	if d.check("class", class, "required", "must not be empty") {
		d.query.Set("class", class)
	}
	return d
}

func (d *Details) Keywords(enabled bool) *Details {
	d.setFlag("keywords", enabled)
	return d
}

func (d *Details) LinkedPlaces(enabled bool) *Details {
	d.setFlag("linkedplaces", enabled)
	return d
}

func (d *Details) Hierarchy(enabled bool) *Details {
	d.setFlag("hierarchy", enabled)
	return d
}

func (d *Details) GroupHierarchy(enabled bool) *Details {
	d.setFlag("group_hierarchy", enabled)
	return d
}

func (d *Details) PolygonGeoJSON(enabled bool) *Details {
	d.setFlag("polygon_geojson", enabled)
	return d
}
