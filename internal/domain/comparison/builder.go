package comparison

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/okian/jumpboard/internal/domain/model"
)

// Entry holds one athlete and their results, ordered by the caller.
type Entry struct {
	Athlete model.Athlete  `json:"athlete"`
	Results []model.Result `json:"results"`
}

// ResultsByAthlete maps athlete id to the athlete's results.
type ResultsByAthlete map[int]Entry

// Values maps athlete id to the plotted value; nil marks a gap.
type Values map[int]*float64

// MarshalJSON writes every athlete key, with null for gaps.
func (v Values) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, len(v))
	for id, val := range v {
		out[strconv.Itoa(id)] = val
	}
	return json.Marshal(out)
}

// Row is one slot with a value (or gap) for every selected athlete.
type Row struct {
	Slot   Slot   `json:"slot"`
	Label  string `json:"label"`
	Values Values `json:"values"`
}

// Series describes one plotted line.
type Series struct {
	AthleteID int    `json:"athleteId"`
	Name      string `json:"name"`
	Color     string `json:"color"`
}

// Chart is the full comparison payload for the rendering surface.
type Chart struct {
	Metric Metric   `json:"metric"`
	Label  string   `json:"metricLabel"`
	Series []Series `json:"series"`
	Rows   []Row    `json:"rows"`
	// ConnectNulls is always false: a gap must not be bridged by the line.
	ConnectNulls bool `json:"connectNulls"`
}

// Empty reports whether there is nothing to draw.
func (c Chart) Empty() bool {
	return len(c.Rows) == 0
}

// Build produces the comparison chart for athletes and metric. It is a pure
// function of its inputs; repeated calls yield identical charts.
func Build(athletes []model.Athlete, results ResultsByAthlete, metric Metric) Chart {
	selected := uniqueAthletes(athletes)

	chart := Chart{
		Metric: metric,
		Label:  metric.Label(),
		Series: make([]Series, 0, len(selected)),
		Rows:   make([]Row, 0),
	}
	for _, a := range selected {
		chart.Series = append(chart.Series, Series{
			AthleteID: a.ID,
			Name:      a.DisplayName(),
			Color:     ColorOf(a.ID),
		})
	}
	if len(selected) == 0 {
		return chart
	}

	// First placed result wins when an athlete has duplicates for a slot.
	indexes := make(map[int]map[slotKey]model.Result, len(selected))
	for _, a := range selected {
		idx := make(map[slotKey]model.Result)
		for _, r := range results[a.ID].Results {
			k, ok := placement(r)
			if !ok {
				continue
			}
			if _, dup := idx[k]; !dup {
				idx[k] = r
			}
		}
		indexes[a.ID] = idx
	}

	for _, slot := range Slots(selected, results) {
		row := Row{Slot: slot, Label: slot.Label(), Values: make(Values, len(selected))}
		for _, a := range selected {
			var value *float64
			if r, ok := indexes[a.ID][slot.key()]; ok {
				value = metric.Value(r).Ptr()
			}
			row.Values[a.ID] = value
		}
		chart.Rows = append(chart.Rows, row)
	}
	return chart
}

// uniqueAthletes drops repeated ids, keeping the first occurrence.
func uniqueAthletes(athletes []model.Athlete) []model.Athlete {
	seen := make(map[int]struct{}, len(athletes))
	out := make([]model.Athlete, 0, len(athletes))
	for _, a := range athletes {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}
