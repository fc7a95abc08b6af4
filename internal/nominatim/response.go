package nominatim

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is the raw result of a successful round trip.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Format is the format that was requested, "" when the server default applied.
	Format string
}

func (r *Response) String() string {
	return string(r.Body)
}

// IsJSON reports whether the body is one of the JSON flavours. When no format
// was requested the Content-Type header decides.
func (r *Response) IsJSON() bool {
	if r.Format != "" {
		return r.Format != FormatXML
	}
	return strings.Contains(r.Header.Get("Content-Type"), "json")
}

// DecodeJSON unmarshals a JSON body into v.
func (r *Response) DecodeJSON(v interface{}) error {
	if !r.IsJSON() {
		return ErrNotJSON
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode nominatim response: %w", err)
	}
	return nil
}

// Decode unmarshals a JSON body into generic maps and slices.
func (r *Response) Decode() (interface{}, error) {
	var out interface{}
	if err := r.DecodeJSON(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeXML unmarshals an xml body into v.
func (r *Response) DecodeXML(v interface{}) error {
	if r.IsJSON() {
		return fmt.Errorf("decode nominatim response: format %q is not xml", r.Format)
	}
	if err := xml.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode nominatim response: %w", err)
	}
	return nil
}
