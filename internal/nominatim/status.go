package nominatim

// Status builds a /status request. It always asks for json.
type Status struct {
	builder[*Status]
}

func newStatus() *Status {
	s := &Status{}
	s.init(s, "status")
	s.query.Set("format", FormatJSON)
	return s
}

// Format overrides the shared setter: only json is offered for /status.
func (s *Status) Format(format string) *Status {
	if s.check("format", format, "oneof="+FormatJSON, "must be json") {
		s.query.Set("format", format)
	}
	return s
}

// StatusReport is the decoded body of a /status?format=json response.
type StatusReport struct {
	Status          int    `json:"status"`
	Message         string `json:"message"`
	DataUpdated     string `json:"data_updated,omitempty"`
	SoftwareVersion string `json:"software_version,omitempty"`
	DatabaseVersion string `json:"database_version,omitempty"`
}

// OK reports whether the server declared itself healthy.
func (r StatusReport) OK() bool {
	return r.Status == 0
}
