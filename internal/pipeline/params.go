package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

const (
	MinLimit     = 5
	MaxLimit     = 20
	DefaultLimit = 5
)

// ErrInvalidParams is wrapped by every parameter validation failure.
var ErrInvalidParams = errors.New("invalid dashboard parameters")

// Params selects what a dashboard refresh shows.
type Params struct {
	Severity domain.Severity `json:"severity"`
	Period   domain.Period   `json:"period"`
	Region   string          `json:"region"`
	Limit    int             `json:"limit"`
}

// DefaultParams returns the selection shown before any interaction.
func DefaultParams() Params {
	return Params{
		Severity: domain.SeverityAll,
		Period:   domain.PeriodMonth,
		Region:   domain.RegionPuertoRico.Name,
		Limit:    DefaultLimit,
	}
}

// Validate reports the first invalid field.
func (p Params) Validate() error {
	if !p.Severity.Valid() {
		return fmt.Errorf("%w: severity %q", ErrInvalidParams, p.Severity)
	}
	if !p.Period.Valid() {
		return fmt.Errorf("%w: period %q", ErrInvalidParams, p.Period)
	}
	if _, err := domain.LookupRegion(p.Region); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if p.Limit < MinLimit || p.Limit > MaxLimit {
		return fmt.Errorf("%w: limit %d outside [%d, %d]", ErrInvalidParams, p.Limit, MinLimit, MaxLimit)
	}
	return nil
}

// ParseParams reads params from a query string. Missing keys keep their
// defaults; present keys must be valid.
func ParseParams(q url.Values) (Params, error) {
	p := DefaultParams()
	if v := q.Get("severity"); v != "" {
		p.Severity = domain.Severity(v)
	}
	if v := q.Get("period"); v != "" {
		p.Period = domain.Period(v)
	}
	if v := q.Get("region"); v != "" {
		p.Region = v
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Params{}, fmt.Errorf("%w: limit %q is not an integer", ErrInvalidParams, v)
		}
		p.Limit = n
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Query encodes params as a query string accepted by ParseParams.
func (p Params) Query() url.Values {
	return url.Values{
		"severity": {string(p.Severity)},
		"period":   {string(p.Period)},
		"region":   {p.Region},
		"limit":    {strconv.Itoa(p.Limit)},
	}
}
