package nominatim

import "strconv"

// Reverse builds a /reverse request for a coordinate or an OSM object.
type Reverse struct {
	placeBuilder[*Reverse]
}

func newReverse() *Reverse {
	r := &Reverse{}
	r.init(r, "reverse")
	r.require = func(q Query) error {
		if q.Has("lat") || (q.Has("osm_type") && q.Has("osm_id")) {
			return nil
		}
		return &InvalidParameterError{Param: "lat", Reason: "a coordinate or an OSM type and id are required"}
	}
	return r
}

// LatLon sets the coordinate to look up.
func (r *Reverse) LatLon(lat, lon float64) *Reverse {
	switch {
	case !validLatitude(lat):
		r.fail("lat", lat, "must be within [-90, 90]")
	case !validLongitude(lon):
		r.fail("lon", lon, "must be within [-180, 180]")
	default:
		r.query.Set("lat", formatFloat(lat))
		r.query.Set("lon", formatFloat(lon))
	}
	return r
}

// OsmType sets the type of the OSM object: N (node), W (way) or R (relation).
func (r *Reverse) OsmType(osmType string) *Reverse {
	r.setOsmType("osm_type", osmType)
	return r
}

func (r *Reverse) OsmID(id int64) *Reverse {
	r.setPositiveID("osm_id", id)
	return r
}

// Zoom sets the level of detail, from 0 (country) to 18 (building).
func (r *Reverse) Zoom(zoom int) *Reverse {
	if r.check("zoom", zoom, "gte=0,lte=18", "must be within [0, 18]") {
		r.query.Set("zoom", strconv.Itoa(zoom))
	}
	return r
}

func (r *Reverse) Layer(layers ...string) *Reverse {
	r.setLayers(layers)
	return r
}
