package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"nominatim_gateway/internal/nominatim"
	"nominatim_gateway/platform/config"
	"nominatim_gateway/platform/logger"

	"github.com/spf13/cobra"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	baseURL        string
	format         string
	acceptLanguage string
	method         string
	printURL       bool
	verbose        bool
}

// builder is the part of every request type the commands configure generically.
type builder[T nominatim.Request] interface {
	nominatim.Request
	Format(string) T
	AcceptLanguage(string) T
	Method(string) T
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "geocode",
		Short:         "Query a Nominatim geocoding server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.baseURL, "base-url", "", "Nominatim base URL (defaults to NOMINATIM_BASE_URL)")
	flags.StringVarP(&opts.format, "format", "f", "", "response format: "+strings.Join(nominatim.Formats, ", "))
	flags.StringVar(&opts.acceptLanguage, "accept-language", "", "preferred result languages")
	flags.StringVar(&opts.method, "method", "GET", "HTTP method, GET or POST")
	flags.BoolVar(&opts.printURL, "print-url", false, "print the request URL instead of sending it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log upstream calls to stderr")

	root.AddCommand(
		newSearchCmd(opts),
		newReverseCmd(opts),
		newLookupCmd(opts),
		newDetailsCmd(opts),
		newStatusCmd(opts),
	)
	return root
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var (
		street, city, county, state, country, postalCode string
		countryCodes                                     []string
		viewBox                                          string
		bounded, addressDetails                          bool
		limit                                            int
	)

	cmd := &cobra.Command{
		Use:   "search [free-form query]",
		Short: "Look up places by name or address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, opts)
			if err != nil {
				return err
			}
			search := client.NewSearch()
			applyGlobals[*nominatim.Search](search, opts)

			provided := len(args) == 1
			if provided {
				search.Q(args[0])
			}
			structured := []struct {
				flag  string
				value string
				set   func(string) *nominatim.Search
			}{
				{"street", street, search.Street},
				{"city", city, search.City},
				{"county", county, search.County},
				{"state", state, search.State},
				{"country", country, search.Country},
				{"postalcode", postalCode, search.PostalCode},
			}
			for _, field := range structured {
				if cmd.Flags().Changed(field.flag) {
					field.set(field.value)
					provided = true
				}
			}
			if !provided {
				return errors.New("either a free-form query or at least one structured field is required")
			}

			if len(countryCodes) > 0 {
				search.CountryCodes(countryCodes...)
			}
			if viewBox != "" {
				box, err := parseFloats(viewBox, 4)
				if err != nil {
					return fmt.Errorf("--viewbox: %w", err)
				}
				search.ViewBox(box[0], box[1], box[2], box[3])
			}
			if cmd.Flags().Changed("bounded") {
				search.Bounded(bounded)
			}
			if cmd.Flags().Changed("addressdetails") {
				search.AddressDetails(addressDetails)
			}
			if cmd.Flags().Changed("limit") {
				search.Limit(limit)
			}
			return run(cmd, client, search, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&street, "street", "", "house number and street name")
	flags.StringVar(&city, "city", "", "city")
	flags.StringVar(&county, "county", "", "county")
	flags.StringVar(&state, "state", "", "state")
	flags.StringVar(&country, "country", "", "country")
	flags.StringVar(&postalCode, "postalcode", "", "postal code")
	flags.StringSliceVar(&countryCodes, "country-codes", nil, "restrict results to ISO 3166-1 alpha-2 codes")
	flags.StringVar(&viewBox, "viewbox", "", "preferred area as left,top,right,bottom")
	flags.BoolVar(&bounded, "bounded", false, "restrict results to the viewbox")
	flags.BoolVar(&addressDetails, "addressdetails", false, "include address breakdown")
	flags.IntVar(&limit, "limit", 10, "maximum number of results")
	return cmd
}

func newReverseCmd(opts *globalOptions) *cobra.Command {
	var zoom int

	cmd := &cobra.Command{
		Use:   "reverse <lat> <lon>",
		Short: "Find the address at a coordinate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords, err := parseFloats(strings.Join(args, ","), 2)
			if err != nil {
				return err
			}
			client, err := newClient(cmd, opts)
			if err != nil {
				return err
			}
			reverse := client.NewReverse()
			applyGlobals[*nominatim.Reverse](reverse, opts)
			reverse.LatLon(coords[0], coords[1])
			if cmd.Flags().Changed("zoom") {
				reverse.Zoom(zoom)
			}
			return run(cmd, client, reverse, opts)
		},
	}
	cmd.Flags().IntVar(&zoom, "zoom", 18, "level of detail, 0 (country) to 18 (building)")
	return cmd
}

func newLookupCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <osm_ids>",
		Short: "Resolve OSM objects, e.g. R146656,W104393803,N240109189",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, opts)
			if err != nil {
				return err
			}
			lookup := client.NewLookup()
			applyGlobals[*nominatim.Lookup](lookup, opts)
			lookup.OsmIDs(args[0])
			return run(cmd, client, lookup, opts)
		},
	}
}

func newDetailsCmd(opts *globalOptions) *cobra.Command {
	var (
		placeID int64
		osmType string
		osmID   int64
	)

	cmd := &cobra.Command{
		Use:   "details",
		Short: "Show everything known about one place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if placeID == 0 && (osmType == "" || osmID == 0) {
				return errors.New("either --place-id or both --osm-type and --osm-id are required")
			}
			client, err := newClient(cmd, opts)
			if err != nil {
				return err
			}
			details := client.NewDetails()
			applyGlobals[*nominatim.Details](details, opts)
			if placeID != 0 {
				details.PlaceID(placeID)
			} else {
				details.OsmType(osmType).OsmID(osmID)
			}
			return run(cmd, client, details, opts)
		},
	}
	cmd.Flags().Int64Var(&placeID, "place-id", 0, "Nominatim place id")
	cmd.Flags().StringVar(&osmType, "osm-type", "", "N, W or R")
	cmd.Flags().Int64Var(&osmID, "osm-id", 0, "OSM object id")
	return cmd
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the health of the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd, opts)
			if err != nil {
				return err
			}
			if opts.printURL {
				return run(cmd, client, client.NewStatus().Method(opts.method), opts)
			}
			report, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (software %s, data updated %s)\n",
				report.Message, report.SoftwareVersion, report.DataUpdated)
			return nil
		},
	}
}

func newClient(cmd *cobra.Command, opts *globalOptions) (*nominatim.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.Discard()
	if opts.verbose {
		log = logger.NewWithWriter("development", cmd.ErrOrStderr())
	}

	clientOpts := []nominatim.Option{nominatim.WithLogger(log)}
	if opts.baseURL != "" {
		cfg.NominatimBaseURL = opts.baseURL
	}
	return nominatim.NewFromConfig(cfg, clientOpts...)
}

func applyGlobals[T nominatim.Request](b builder[T], opts *globalOptions) {
	if opts.format != "" {
		b.Format(opts.format)
	}
	if opts.acceptLanguage != "" {
		b.AcceptLanguage(opts.acceptLanguage)
	}
	b.Method(opts.method)
}

func run(cmd *cobra.Command, client *nominatim.Client, req nominatim.Request, opts *globalOptions) error {
	if err := req.Err(); err != nil {
		return err
	}
	if opts.printURL {
		fmt.Fprintln(cmd.OutOrStdout(), client.URL(req))
		return nil
	}

	resp, err := client.Send(cmd.Context(), req)
	if err != nil {
		var reqErr *nominatim.RequestError
		if errors.As(err, &reqErr) && len(reqErr.Body) > 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), strings.TrimSpace(string(reqErr.Body)))
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(resp.String()))
	return nil
}

func parseFloats(value string, want int) ([]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d comma separated numbers, got %d", want, len(parts))
	}
	out := make([]float64, 0, want)
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		out = append(out, f)
	}
	return out, nil
}
