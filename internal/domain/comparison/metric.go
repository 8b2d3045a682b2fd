// Package comparison turns per-athlete results into chart-ready series where
// the X axis is a sequence of (event, attempt) slots.
package comparison

import "github.com/okian/jumpboard/internal/domain/model"

// Metric names a numeric result field that can be plotted.
type Metric string

// Known metrics.
const (
	JumpLength       Metric = "jumpLength"
	TotalPoints      Metric = "totalPoints"
	SpeedTakeoff     Metric = "speedTakeoff"
	Gate             Metric = "gate"
	FlightTime       Metric = "flightTime"
	StylePoints      Metric = "stylePoints"
	WindCompensation Metric = "windCompensation"
)

// DefaultMetric is plotted when none is chosen.
const DefaultMetric = JumpLength

// Direction tells which end of a metric's range marks the better jump.
type Direction string

// Metric directions. Unranked metrics, such as the signed wind
// compensation, have no better end.
const (
	HigherIsBetter Direction = "higher"
	LowerIsBetter  Direction = "lower"
	Unranked       Direction = "none"
)

// MetricInfo pairs a metric key with its display label.
type MetricInfo struct {
	Key    Metric    `json:"key"`
	Label  string    `json:"label"`
	Better Direction `json:"better"`
}

var catalog = []MetricInfo{
	{Key: JumpLength, Label: "Długość skoku", Better: HigherIsBetter},
	{Key: TotalPoints, Label: "Punkty", Better: HigherIsBetter},
	{Key: SpeedTakeoff, Label: "Prędkość na progu", Better: HigherIsBetter},
	{Key: Gate, Label: "Belka", Better: LowerIsBetter},
	{Key: FlightTime, Label: "Czas lotu", Better: HigherIsBetter},
	{Key: StylePoints, Label: "Ocena stylu", Better: HigherIsBetter},
	{Key: WindCompensation, Label: "Korekta wiatru", Better: Unranked},
}

// Metrics lists the known metrics in menu order.
func Metrics() []MetricInfo {
	out := make([]MetricInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Known reports whether m is one of the known metrics.
func (m Metric) Known() bool {
	for _, info := range catalog {
		if info.Key == m {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw key for unknown metrics.
func (m Metric) Label() string {
	for _, info := range catalog {
		if info.Key == m {
			return info.Label
		}
	}
	return string(m)
}

// Better returns the metric's direction. Unknown metrics are unranked.
func (m Metric) Better() Direction {
	for _, info := range catalog {
		if info.Key == m {
			return info.Better
		}
	}
	return Unranked
}

// Value reads the metric from r. Unknown metrics read as unset.
func (m Metric) Value(r model.Result) model.Number {
	switch m {
	case JumpLength:
		return r.JumpLength
	case TotalPoints:
		return r.TotalPoints
	case SpeedTakeoff:
		return r.SpeedTakeoff
	case Gate:
		return r.Gate
	case FlightTime:
		return r.FlightTime
	case StylePoints:
		return r.StylePoints
	case WindCompensation:
		return r.WindCompensation
	default:
		return model.Number{}
	}
}
