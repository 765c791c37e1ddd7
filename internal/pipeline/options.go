package pipeline

import "github.com/couchcryptid/quake-dashboard/internal/domain"

// Choice is one selectable value with its display label.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LimitRange bounds the table size selector.
type LimitRange struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// OptionSet lists everything the dashboard controls can select.
type OptionSet struct {
	Severities []Choice   `json:"severities"`
	Periods    []Choice   `json:"periods"`
	Regions    []Choice   `json:"regions"`
	Limit      LimitRange `json:"limit"`
	Defaults   Params     `json:"defaults"`
}

var severityLabels = map[domain.Severity]string{
	domain.SeverityAll:         "todos",
	domain.SeveritySignificant: "significativo",
	domain.Severity4_5:         "4.5",
	domain.Severity2_5:         "2.5",
	domain.Severity1_0:         "1.0",
}

var periodLabels = map[domain.Period]string{
	domain.PeriodMonth: "mes",
	domain.PeriodWeek:  "semana",
	domain.PeriodDay:   "día",
}

// Options returns the selectable values in display order.
func Options() OptionSet {
	set := OptionSet{
		Limit:    LimitRange{Min: MinLimit, Max: MaxLimit, Default: DefaultLimit},
		Defaults: DefaultParams(),
	}
	for _, s := range domain.Severities {
		set.Severities = append(set.Severities, Choice{Value: string(s), Label: severityLabels[s]})
	}
	for _, p := range domain.Periods {
		set.Periods = append(set.Periods, Choice{Value: string(p), Label: periodLabels[p]})
	}
	for _, r := range domain.Regions {
		set.Regions = append(set.Regions, Choice{Value: r.Name, Label: r.Label})
	}
	return set
}
