package nominatim

import (
	"net/http"

	"nominatim_gateway/platform/config"
)

// NewFromConfig builds a client from application settings. Extra options are
// applied after the configured ones.
func NewFromConfig(cfg config.NominatimConfig, opts ...Option) (*Client, error) {
	configured := []Option{
		WithHTTPClient(&http.Client{Timeout: cfg.GetNominatimTimeout()}),
		WithUserAgent(cfg.GetNominatimUserAgent()),
		WithHeader("Accept-Language", cfg.GetNominatimAcceptLanguage()),
		WithEmail(cfg.GetNominatimEmail()),
	}
	return New(cfg.GetNominatimBaseURL(), append(configured, opts...)...)
}
