package comparison

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/okian/jumpboard/internal/domain/model"
)

// attemptLabel prefixes the attempt index in slot labels.
const attemptLabel = "Próba"

// Slot is one X-axis category: a single attempt at a single event.
type Slot struct {
	Day       string `json:"day"`
	EventName string `json:"eventName"`
	Attempt   int    `json:"attempt"`
}

// Label is the multi-line axis label: date, event name and attempt.
func (s Slot) Label() string {
	return strings.Join(s.parts(), "\n")
}

// Title is the single-line form of Label used by tables and logs.
func (s Slot) Title() string {
	return strings.Join(s.parts(), " – ")
}

func (s Slot) parts() []string {
	return []string{s.Day, s.EventName, attemptLabel + " " + strconv.Itoa(s.Attempt)}
}

// eventKey identifies an event on the axis by calendar day and name.
type eventKey struct {
	day  string
	name string
}

// slotKey identifies a slot structurally.
type slotKey struct {
	event   eventKey
	attempt int
}

func (s Slot) key() slotKey {
	return slotKey{event: eventKey{day: s.Day, name: s.EventName}, attempt: s.Attempt}
}

// placement returns where r sits on the axis. ok is false for results that
// cannot be placed: no event or no positive attempt number.
func placement(r model.Result) (slotKey, bool) {
	if r.Event == nil {
		return slotKey{}, false
	}
	attempt, ok := r.Attempt()
	if !ok || attempt < 1 {
		return slotKey{}, false
	}
	return slotKey{event: eventKey{day: r.Event.Day(), name: r.Event.Name}, attempt: attempt}, true
}

type eventSpan struct {
	key        eventKey
	day        time.Time
	dayValid   bool
	firstSeen  int
	maxAttempt int
}

// Slots derives the ordered X axis for the selected athletes. Events are
// ordered by day, ties keep first-seen order; each event spans attempts
// 1..max observed, filling gaps nobody recorded.
func Slots(athletes []model.Athlete, results ResultsByAthlete) []Slot {
	spans := make(map[eventKey]*eventSpan)
	order := make([]*eventSpan, 0)

	for _, a := range athletes {
		entry, ok := results[a.ID]
		if !ok {
			continue
		}
		for _, r := range entry.Results {
			k, ok := placement(r)
			if !ok {
				continue
			}
			span, seen := spans[k.event]
			if !seen {
				day, valid := r.Event.DayTime()
				span = &eventSpan{key: k.event, day: day, dayValid: valid, firstSeen: len(order)}
				spans[k.event] = span
				order = append(order, span)
			}
			span.maxAttempt = max(span.maxAttempt, k.attempt)
		}
	}

	// Malformed days sort after every valid one.
	slices.SortFunc(order, func(a, b *eventSpan) int {
		switch {
		case a.dayValid && !b.dayValid:
			return -1
		case !a.dayValid && b.dayValid:
			return 1
		case a.dayValid && b.dayValid && !a.day.Equal(b.day):
			return a.day.Compare(b.day)
		}
		return a.firstSeen - b.firstSeen
	})

	slots := make([]Slot, 0)
	for _, span := range order {
		for attempt := 1; attempt <= span.maxAttempt; attempt++ {
			slots = append(slots, Slot{Day: span.key.day, EventName: span.key.name, Attempt: attempt})
		}
	}
	return slots
}
