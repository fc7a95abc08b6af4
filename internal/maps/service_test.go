package maps

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"nominatim_gateway/internal/nominatim"
	"nominatim_gateway/platform/apperr"
	"nominatim_gateway/platform/logger"
)

type testMapsConfig struct {
	countryCodes []string
	limit        int
}

func (c testMapsConfig) GetMapsCountryCodes() []string { return c.countryCodes }
func (c testMapsConfig) GetMapsLimit() int             { return c.limit }

const damSearchPayload = `[
	{"display_name":"Dam 1, Amsterdam","osm_type":"node","osm_id":240109189,"lat":"52.373","lon":"4.893",
	 "address":{"road":"Dam","house_number":"1","postcode":"1012 JS","city":"Amsterdam","country_code":"nl"}},
	{"display_name":"Dam Square","osm_type":"way","osm_id":104393803,"lat":"52.372","lon":"4.892",
	 "address":{"road":"","city":"Amsterdam"}},
	{"display_name":"Damweg, Edam","osm_type":"way","osm_id":1,"lat":"52.51","lon":"5.04",
	 "address":{"road":"Damweg","village":"Edam"}}
]`

type upstream struct {
	status   int
	body     string
	lastPath string
	lastRaw  string
}

func newTestService(t *testing.T, up *upstream, cfg testMapsConfig) *Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up.lastPath = r.URL.Path
		up.lastRaw = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(up.status)
		_, _ = io.WriteString(w, up.body)
	}))
	t.Cleanup(srv.Close)

	client, err := nominatim.New(srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewService(client, cfg, logger.Discard())
}

func TestSearchAddress_NormalizesResults(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: damSearchPayload}
	svc := newTestService(t, up, testMapsConfig{countryCodes: []string{"nl"}, limit: 5})

	results, err := svc.SearchAddress(context.Background(), "Dam 1 Amsterdam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if up.lastPath != "/search" {
		t.Fatalf("expected /search, got %s", up.lastPath)
	}
	if want := "format=jsonv2&q=Dam+1+Amsterdam&addressdetails=1&limit=5&countrycodes=nl"; up.lastRaw != want {
		t.Fatalf("expected query %q, got %q", want, up.lastRaw)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 suggestions (one without road skipped), got %d", len(results))
	}
	first := results[0]
	if first.Label != "Dam 1, 1012 JS Amsterdam" {
		t.Fatalf("unexpected label %q", first.Label)
	}
	if first.OsmID != "N240109189" || first.CountryCode != "nl" {
		t.Fatalf("unexpected osm id/country %q/%q", first.OsmID, first.CountryCode)
	}
	if results[1].City != "Edam" || results[1].Label != "Damweg, Edam" {
		t.Fatalf("expected village fallback, got %+v", results[1])
	}
}

func TestSearchAddress_OmitsCountryCodesWhenUnset(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: `[]`}
	svc := newTestService(t, up, testMapsConfig{limit: 3})

	results, err := svc.SearchAddress(context.Background(), "Dam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
	if want := "format=jsonv2&q=Dam&addressdetails=1&limit=3"; up.lastRaw != want {
		t.Fatalf("expected query %q, got %q", want, up.lastRaw)
	}
}

func TestSearchAddress_UpstreamFailureIsBadGateway(t *testing.T) {
	up := &upstream{status: http.StatusServiceUnavailable, body: `busy`}
	svc := newTestService(t, up, testMapsConfig{limit: 5})

	_, err := svc.SearchAddress(context.Background(), "Dam")
	if !apperr.Is(err, apperr.KindBadGateway) {
		t.Fatalf("expected bad gateway, got %v", err)
	}
}

func TestSearchAddress_UndecodablePayloadIsBadGateway(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: `{"unexpected": true}`}
	svc := newTestService(t, up, testMapsConfig{limit: 5})

	_, err := svc.SearchAddress(context.Background(), "Dam")
	if !apperr.Is(err, apperr.KindBadGateway) {
		t.Fatalf("expected bad gateway, got %v", err)
	}
}

func TestLookup_InvalidIDsAreValidationErrors(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: `[]`}
	svc := newTestService(t, up, testMapsConfig{limit: 5})

	_, err := svc.Lookup(context.Background(), "W1,way2")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if up.lastPath != "" {
		t.Fatalf("expected no upstream call, got %s", up.lastPath)
	}
}

func TestLookup_Resolves(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: damSearchPayload}
	svc := newTestService(t, up, testMapsConfig{limit: 5})

	results, err := svc.Lookup(context.Background(), "N240109189,W104393803")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "format=jsonv2&osm_ids=N240109189%2CW104393803&addressdetails=1"; up.lastRaw != want {
		t.Fatalf("expected query %q, got %q", want, up.lastRaw)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(results))
	}
}

func TestReverse(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: `{"osm_type":"way","osm_id":42,"lat":"52.1","lon":"5.1",
		"address":{"road":"Oudegracht","house_number":"10","postcode":"3511 AL","town":"Utrecht"}}`}
	svc := newTestService(t, up, testMapsConfig{limit: 5})

	result, err := svc.Reverse(context.Background(), 52.1, 5.1, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "format=jsonv2&lat=52.1&lon=5.1&zoom=18&addressdetails=1"; up.lastRaw != want {
		t.Fatalf("expected query %q, got %q", want, up.lastRaw)
	}
	if result.Label != "Oudegracht 10, 3511 AL Utrecht" || result.OsmID != "W42" {
		t.Fatalf("unexpected suggestion %+v", result)
	}
}

func TestReverse_UnableToGeocodeIsNotFound(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: `{"error":"Unable to geocode"}`}
	svc := newTestService(t, up, testMapsConfig{limit: 5})

	_, err := svc.Reverse(context.Background(), 0, 0, 18)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReverse_OutOfRangeIsValidationError(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: `{}`}
	svc := newTestService(t, up, testMapsConfig{limit: 5})

	_, err := svc.Reverse(context.Background(), 52, 5, 25)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPing(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: `{"status":0,"message":"OK"}`}
	svc := newTestService(t, up, testMapsConfig{limit: 5})

	if err := svc.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.lastPath != "/status" {
		t.Fatalf("expected /status, got %s", up.lastPath)
	}
}

func TestBuildLabel(t *testing.T) {
	cases := []struct {
		in   AddressSuggestion
		want string
	}{
		{AddressSuggestion{Street: "Dam", HouseNumber: "1", ZipCode: "1012 JS", City: "Amsterdam"}, "Dam 1, 1012 JS Amsterdam"},
		{AddressSuggestion{Street: "Dam", City: "Amsterdam"}, "Dam, Amsterdam"},
		{AddressSuggestion{Street: "Dam", HouseNumber: "1", City: "Amsterdam"}, "Dam 1, Amsterdam"},
	}
	for _, tc := range cases {
		if got := buildLabel(tc.in); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
