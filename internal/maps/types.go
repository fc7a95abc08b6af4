package maps

// LookupRequest represents the query parameters from the frontend.
type LookupRequest struct {
	Query string `form:"q" binding:"required,min=3"`
}

// ReverseRequest locates the address closest to a coordinate.
type ReverseRequest struct {
	Lat  *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lon  *float64 `form:"lon" binding:"required,gte=-180,lte=180"`
	Zoom *int     `form:"zoom" binding:"omitempty,gte=0,lte=18"`
}

// OSMLookupRequest resolves OSM objects such as "W104393803,N240109189".
type OSMLookupRequest struct {
	OsmIDs string `form:"osm_ids" binding:"required"`
}

// AddressSuggestion is the normalized data returned to the frontend form.
type AddressSuggestion struct {
	Label       string `json:"label"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	ZipCode     string `json:"zipCode"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode,omitempty"`
	OsmID       string `json:"osmId,omitempty"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

type nominatimAddress struct {
	Road         string `json:"road"`
	HouseNumber  string `json:"house_number"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	Hamlet       string `json:"hamlet"`
	CountryCode  string `json:"country_code"`
}

// nominatimResponse mirrors the relevant parts of the jsonv2 place payload
// shared by search, reverse and lookup.
type nominatimResponse struct {
	DisplayName string           `json:"display_name"`
	OsmType     string           `json:"osm_type"`
	OsmID       int64            `json:"osm_id"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error"`
}
