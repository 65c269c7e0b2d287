package entity

import "fmt"

// StatusCode is the contract's flight status enumeration
type StatusCode uint8

const (
	StatusUnknown       StatusCode = 0
	StatusOnTime        StatusCode = 10
	StatusLateAirline   StatusCode = 20
	StatusLateWeather   StatusCode = 30
	StatusLateTechnical StatusCode = 40
	StatusLateOther     StatusCode = 50
)

// StatusCodes lists every code an oracle may report, in contract order
var StatusCodes = []StatusCode{
	StatusUnknown,
	StatusOnTime,
	StatusLateAirline,
	StatusLateWeather,
	StatusLateTechnical,
	StatusLateOther,
}

// Status pairs a code with its display label
type Status struct {
	Code  StatusCode `json:"code"`
	Label string     `json:"label"`
}

var statusTable = map[StatusCode]struct {
	name  string
	label string
}{
	StatusUnknown:       {"STATUS_CODE_UNKNOWN", "UNKNOWN"},
	StatusOnTime:        {"STATUS_CODE_ON_TIME", "FLIGHT: ON TIME"},
	StatusLateAirline:   {"STATUS_CODE_LATE_AIRLINE", "FLIGHT LATE: AIRLINE"},
	StatusLateWeather:   {"STATUS_CODE_LATE_WEATHER", "FLIGHT LATE: Due to WEATHER"},
	StatusLateTechnical: {"STATUS_CODE_LATE_TECHNICAL", "FLIGHT LATE: Due to TECHNICAL Issues"},
	StatusLateOther:     {"STATUS_CODE_LATE_OTHER", "FLIGHT LATE: OTHER Reason"},
}

// Name returns the contract constant name, or an empty string for unknown codes
func (c StatusCode) Name() string {
	return statusTable[c].name
}

// IsLate reports whether the code entitles passengers to a payout
func (c StatusCode) IsLate() bool {
	return c >= StatusLateAirline
}

// LookupStatus translates a code returned by the contract into its label
func LookupStatus(code uint8) (Status, error) {
	entry, ok := statusTable[StatusCode(code)]
	if !ok {
		return Status{}, fmt.Errorf("%w: %d", ErrUnknownStatus, code)
	}
	return Status{Code: StatusCode(code), Label: entry.label}, nil
}
