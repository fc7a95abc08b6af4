package nominatim

import "strings"

// Lookup builds a /lookup request for a list of OSM objects.
type Lookup struct {
	placeBuilder[*Lookup]
}

func newLookup() *Lookup {
	l := &Lookup{}
	l.init(l, "lookup")
	l.require = func(q Query) error {
		if q.Has("osm_ids") {
			return nil
		}
		return &InvalidParameterError{Param: "osm_ids", Reason: "must not be empty"}
	}
	return l
}

// OsmIDs sets a comma separated list of OSM ids, each prefixed with its type,
// e.g. "R146656,W104393803,N240109189".
func (l *Lookup) OsmIDs(ids string) *Lookup {
	if strings.TrimSpace(ids) == "" {
		l.fail("osm_ids", ids, "must not be empty")
		return l
	}
	l.setList("osm_ids", strings.Split(ids, ","), "osmid", "must be N, W or R followed by a numeric id")
	return l
}
