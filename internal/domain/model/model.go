// Package model contains the club backend's entities as the client sees them.
package model

import (
	"strconv"
	"strings"
	"time"
)

// Well-known role names assigned by the backend.
const (
	RoleAdmin         = "ADMIN"
	RoleManager       = "MANAGER"
	RoleTrainer       = "TRAINER"
	RoleOperate       = "OPERATE"
	RoleInjuryManager = "INJURY_MANAGER"
	RoleAthlete       = "ATHLETE"
)

// localDateTimeLayout is how the backend serializes LocalDateTime.
const localDateTimeLayout = "2006-01-02T15:04:05"

// dateLayout is the calendar date part of a LocalDateTime.
const dateLayout = "2006-01-02"

// Team is a training group athletes and trainers belong to.
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Hill is a ski jumping venue.
type Hill struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country,omitempty"`
	City        string `json:"city,omitempty"`
	KPoint      Number `json:"kPoint"`
	HillSize    Number `json:"hillSize"`
	Latitude    Number `json:"latitude"`
	Longitude   Number `json:"longitude"`
	Description string `json:"description,omitempty"`
}

// Athlete is a backend user. Athletes, trainers and admins share one shape.
type Athlete struct {
	ID          int    `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Login       string `json:"login,omitempty"`
	BirthDate   string `json:"birthDate,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Height      Number `json:"height"`
	Weight      Number `json:"weight"`
	Roles       Roles  `json:"roles,omitempty"`
	Teams       []Team `json:"teams,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// DisplayName is "First Last", trimmed.
func (a Athlete) DisplayName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// HasAnyRole reports whether the athlete holds at least one of roles.
func (a Athlete) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range a.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// TeamIDs lists the ids of the athlete's teams.
func (a Athlete) TeamIDs() []int {
	ids := make([]int, 0, len(a.Teams))
	for _, t := range a.Teams {
		ids = append(ids, t.ID)
	}
	return ids
}

// Event is a competition or training session held on a hill.
type Event struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
	Level       *int   `json:"level,omitempty"`
	Hill        *Hill  `json:"hill,omitempty"`
}

// Day returns the calendar date part of StartDate, ignoring any time of day
// or zone suffix.
func (e Event) Day() string {
	day, _, _ := strings.Cut(e.StartDate, "T")
	return strings.TrimSpace(day)
}

// DayTime parses Day as a date. ok is false when the date is malformed.
func (e Event) DayTime() (time.Time, bool) {
	t, err := time.Parse(dateLayout, e.Day())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StartTime parses StartDate as a LocalDateTime, falling back to RFC 3339
// and to a bare date.
func (e Event) StartTime() (time.Time, bool) {
	for _, layout := range []string{localDateTimeLayout, time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, e.StartDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Result is one attempt of one athlete at one event.
type Result struct {
	ID               int      `json:"id"`
	Event            *Event   `json:"event"`
	Athlete          *Athlete `json:"athlete"`
	Season           string   `json:"season,omitempty"`
	AttemptNumber    *int     `json:"attemptNumber"`
	JumpLength       Number   `json:"jumpLength"`
	StylePoints      Number   `json:"stylePoints"`
	WindCompensation Number   `json:"windCompensation"`
	Gate             Number   `json:"gate"`
	TotalPoints      Number   `json:"totalPoints"`
	SpeedTakeoff     Number   `json:"speedTakeoff"`
	FlightTime       Number   `json:"flightTime"`
	CoachComment     string   `json:"coachComment,omitempty"`
	VideoURL         string   `json:"videoUrl,omitempty"`
}

// Attempt returns the attempt number and whether it is set.
func (r Result) Attempt() (int, bool) {
	if r.AttemptNumber == nil {
		return 0, false
	}
	return *r.AttemptNumber, true
}

// AthleteID returns the owning athlete id or 0 when the athlete is missing.
func (r Result) AthleteID() int {
	if r.Athlete == nil {
		return 0
	}
	return r.Athlete.ID
}

// SeasonOf returns the season label of a date: May..December belong to
// "Y/Y+1", January..April to "Y-1/Y".
func SeasonOf(t time.Time) string {
	year := t.Year()
	if t.Month() >= time.May {
		return strconv.Itoa(year) + "/" + strconv.Itoa(year+1)
	}
	return strconv.Itoa(year-1) + "/" + strconv.Itoa(year)
}

// Page is the backend's paging envelope.
type Page[T any] struct {
	Content       []T  `json:"content"`
	TotalPages    int  `json:"totalPages"`
	TotalElements int  `json:"totalElements"`
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	Last          bool `json:"last"`
}

// HasNext reports whether a page after this one exists.
func (p Page[T]) HasNext() bool {
	return p.TotalPages > p.Number+1
}
