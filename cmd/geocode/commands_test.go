package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nominatim_gateway/internal/nominatim"
)

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("NOMINATIM_EMAIL", "")
	t.Setenv("NOMINATIM_ACCEPT_LANGUAGE", "")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestPrintURL(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{
			[]string{"search", "Damrak 1", "--country-codes", "nl", "--limit", "3", "-f", "jsonv2", "--print-url", "--base-url", "http://nominatim.test"},
			"http://nominatim.test/search?format=jsonv2&q=Damrak+1&countrycodes=nl&limit=3",
		},
		{
			[]string{"search", "--city", "Utrecht", "--street", "Domplein 1", "--print-url", "--base-url", "http://nominatim.test"},
			"http://nominatim.test/search?street=Domplein+1&city=Utrecht",
		},
		{
			[]string{"reverse", "52.09", "5.12", "--zoom", "10", "--print-url", "--base-url", "http://nominatim.test"},
			"http://nominatim.test/reverse?lat=52.09&lon=5.12&zoom=10",
		},
		{
			[]string{"lookup", "R146656,W104393803", "--format", "xml", "--print-url", "--base-url", "http://nominatim.test"},
			"http://nominatim.test/lookup?format=xml&osm_ids=R146656%2CW104393803",
		},
		{
			[]string{"status", "--print-url", "--base-url", "http://nominatim.test"},
			"http://nominatim.test/status?format=json",
		},
		{
			[]string{"details", "--osm-type", "w", "--osm-id", "38210407", "--print-url", "--base-url", "http://nominatim.test"},
			"http://nominatim.test/details?osmtype=W&osmid=38210407",
		},
	}

	for _, tc := range cases {
		got, err := executeCmd(t, tc.args...)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", tc.args, err)
		}
		if got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}

func TestSearchRequiresInput(t *testing.T) {
	if _, err := executeCmd(t, "search", "--print-url"); err == nil {
		t.Fatalf("expected error without query")
	}
}

func TestInvalidParameterIsReported(t *testing.T) {
	_, err := executeCmd(t, "reverse", "91", "5", "--print-url", "--base-url", "http://nominatim.test")
	if !errors.Is(err, nominatim.ErrInvalidParameter) {
		t.Fatalf("expected invalid parameter error, got %v", err)
	}
}

func TestStatusPrintURLSkipsNetwork(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	got, err := executeCmd(t, "status", "--print-url", "--base-url", srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != srv.URL+"/status?format=json" {
		t.Fatalf("unexpected output %q", got)
	}
	if hits != 0 {
		t.Fatalf("expected no request to be sent, got %d", hits)
	}
}

func TestSendPrintsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":0,"message":"OK","software_version":"4.4.0","data_updated":"2026-10-01T00:00:00+00:00"}`))
	}))
	defer srv.Close()

	got, err := executeCmd(t, "status", "--base-url", srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "OK (software 4.4.0, data updated 2026-10-01T00:00:00+00:00)" {
		t.Fatalf("unexpected output %q", got)
	}
}
