package comparison

import (
	"slices"
	"time"

	"github.com/okian/jumpboard/internal/domain/model"
	"github.com/samber/lo"
)

// Group assigns a flat result list to the selected athletes. Every selected
// athlete gets an entry, even without results; results of other athletes are
// dropped. Each athlete's results are ordered by event start, then attempt.
// With sameEventsOnly, only events every selected athlete took part in are
// kept.
func Group(athletes []model.Athlete, results []model.Result, sameEventsOnly bool) ResultsByAthlete {
	grouped := make(ResultsByAthlete, len(athletes))
	for _, a := range athletes {
		grouped[a.ID] = Entry{Athlete: a, Results: make([]model.Result, 0)}
	}

	for _, r := range results {
		entry, ok := grouped[r.AthleteID()]
		if !ok || r.Athlete == nil {
			continue
		}
		entry.Results = append(entry.Results, r)
		grouped[r.AthleteID()] = entry
	}

	for id, entry := range grouped {
		slices.SortStableFunc(entry.Results, compareResults)
		grouped[id] = entry
	}

	if sameEventsOnly {
		common := commonEventIDs(athletes, grouped)
		for id, entry := range grouped {
			entry.Results = lo.Filter(entry.Results, func(r model.Result, _ int) bool {
				return r.Event != nil && lo.Contains(common, r.Event.ID)
			})
			grouped[id] = entry
		}
	}
	return grouped
}

// commonEventIDs intersects the event ids of every selected athlete.
func commonEventIDs(athletes []model.Athlete, grouped ResultsByAthlete) []int {
	if len(athletes) == 0 {
		return nil
	}
	perAthlete := lo.Map(athletes, func(a model.Athlete, _ int) []int {
		withEvent := lo.Filter(grouped[a.ID].Results, func(r model.Result, _ int) bool { return r.Event != nil })
		return lo.Uniq(lo.Map(withEvent, func(r model.Result, _ int) int { return r.Event.ID }))
	})
	return lo.Reduce(perAthlete[1:], func(acc []int, ids []int, _ int) []int {
		return lo.Intersect(acc, ids)
	}, perAthlete[0])
}

// compareResults orders by event start time, then attempt number. Results
// without a parsable start or attempt go last.
func compareResults(a, b model.Result) int {
	ta, okA := startOf(a)
	tb, okB := startOf(b)
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case okA && okB && !ta.Equal(tb):
		return ta.Compare(tb)
	}
	na, okA := a.Attempt()
	nb, okB := b.Attempt()
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	}
	return na - nb
}

func startOf(r model.Result) (time.Time, bool) {
	if r.Event == nil {
		return time.Time{}, false
	}
	return r.Event.StartTime()
}
