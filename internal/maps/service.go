package maps

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"nominatim_gateway/internal/nominatim"
	"nominatim_gateway/platform/apperr"
	"nominatim_gateway/platform/config"
	"nominatim_gateway/platform/logger"
)

const errLookupUnavailable = "address lookup service unavailable"

type Service struct {
	client       *nominatim.Client
	countryCodes []string
	limit        int
	log          *logger.Logger
}

func NewService(client *nominatim.Client, cfg config.MapsConfig, log *logger.Logger) *Service {
	return &Service{
		client:       client,
		countryCodes: cfg.GetMapsCountryCodes(),
		limit:        cfg.GetMapsLimit(),
		log:          log,
	}
}

func (s *Service) SearchAddress(ctx context.Context, query string) ([]AddressSuggestion, error) {
	search := s.client.NewSearch().
		Format(nominatim.FormatJSONv2).
		Q(query).
		AddressDetails(true).
		Limit(s.limit)
	if len(s.countryCodes) > 0 {
		search.CountryCodes(s.countryCodes...)
	}

	var rawResults []nominatimResponse
	if err := s.fetch(ctx, search, &rawResults); err != nil {
		return nil, err
	}

	return buildSuggestions(rawResults), nil
}

// Reverse returns the address nearest to the coordinate.
func (s *Service) Reverse(ctx context.Context, lat, lon float64, zoom int) (AddressSuggestion, error) {
	reverse := s.client.NewReverse().
		Format(nominatim.FormatJSONv2).
		LatLon(lat, lon).
		Zoom(zoom).
		AddressDetails(true)

	var raw nominatimResponse
	if err := s.fetch(ctx, reverse, &raw); err != nil {
		return AddressSuggestion{}, err
	}
	if raw.Error != "" {
		return AddressSuggestion{}, apperr.NotFound("no address found for coordinate")
	}

	suggestion, ok := buildSuggestion(raw)
	if !ok {
		return AddressSuggestion{}, apperr.NotFound("no address found for coordinate")
	}
	return suggestion, nil
}

// Lookup resolves a comma separated list of OSM ids to addresses.
func (s *Service) Lookup(ctx context.Context, osmIDs string) ([]AddressSuggestion, error) {
	lookup := s.client.NewLookup().
		Format(nominatim.FormatJSONv2).
		OsmIDs(osmIDs).
		AddressDetails(true)

	var rawResults []nominatimResponse
	if err := s.fetch(ctx, lookup, &rawResults); err != nil {
		return nil, err
	}

	return buildSuggestions(rawResults), nil
}

// Ping reports whether the upstream instance is healthy.
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.client.Status(ctx)
	return err
}

func (s *Service) fetch(ctx context.Context, req nominatim.Request, out interface{}) error {
	op := "nominatim." + req.Endpoint()
	resp, err := s.client.Send(ctx, req)
	if err != nil {
		return translateError(err).WithOp(op)
	}

	if err := resp.DecodeJSON(out); err != nil {
		s.log.WithContext(ctx).Error("failed to decode nominatim payload", "endpoint", req.Endpoint(), "error", err)
		return apperr.Wrap(apperr.KindBadGateway, errLookupUnavailable, err).WithOp(op)
	}
	return nil
}

func translateError(err error) *apperr.Error {
	var invalid *nominatim.InvalidParameterError
	if errors.As(err, &invalid) {
		return apperr.Wrap(apperr.KindValidation, invalid.Error(), err).
			WithDetails(map[string]string{"param": invalid.Param, "reason": invalid.Reason})
	}
	return apperr.Wrap(apperr.KindBadGateway, errLookupUnavailable, err)
}

func buildSuggestions(rawResults []nominatimResponse) []AddressSuggestion {
	suggestions := make([]AddressSuggestion, 0, len(rawResults))
	for _, raw := range rawResults {
		suggestion, ok := buildSuggestion(raw)
		if !ok {
			continue
		}

		suggestions = append(suggestions, suggestion)
	}
	return suggestions
}

func buildSuggestion(raw nominatimResponse) (AddressSuggestion, bool) {
	if raw.Address.Road == "" {
		return AddressSuggestion{}, false
	}

	city := pickCity(raw.Address)
	if city == "" {
		return AddressSuggestion{}, false
	}

	suggestion := AddressSuggestion{
		Street:      raw.Address.Road,
		HouseNumber: raw.Address.HouseNumber,
		ZipCode:     raw.Address.Postcode,
		City:        city,
		CountryCode: raw.Address.CountryCode,
		OsmID:       formatOsmID(raw.OsmType, raw.OsmID),
		Lat:         raw.Lat,
		Lon:         raw.Lon,
	}

	suggestion.Label = buildLabel(suggestion)

	return suggestion, true
}

// formatOsmID renders the id in the form /lookup accepts, e.g. "W104393803".
func formatOsmID(osmType string, id int64) string {
	if osmType == "" || id == 0 {
		return ""
	}
	return strings.ToUpper(osmType[:1]) + strconv.FormatInt(id, 10)
}

func pickCity(address nominatimAddress) string {
	if address.City != "" {
		return address.City
	}
	if address.Town != "" {
		return address.Town
	}
	if address.Village != "" {
		return address.Village
	}
	if address.Municipality != "" {
		return address.Municipality
	}
	return address.Hamlet
}

func buildLabel(suggestion AddressSuggestion) string {
	parts := []string{suggestion.Street}
	if suggestion.HouseNumber != "" {
		parts = append(parts, suggestion.HouseNumber)
	}
	parts = append(parts, ",")
	if suggestion.ZipCode != "" {
		parts = append(parts, suggestion.ZipCode)
	}
	parts = append(parts, suggestion.City)

	label := strings.Join(parts, " ")
	label = strings.ReplaceAll(label, " ,", ",")
	return strings.TrimSpace(label)
}
