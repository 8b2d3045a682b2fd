package service

import "errors"

// Sentinel kinds for compare service errors.
var (
	ErrNoAthletes      = errors.New("select at least one athlete")
	ErrTooManyAthletes = errors.New("too many athletes selected")
	ErrDateRange       = errors.New("select a date range with from on or before to")
	ErrFetchResults    = errors.New("fetching results failed")
	ErrAthleteLookup   = errors.New("looking up athlete failed")
)

// Messages shown to the user, in the club's language.
const (
	MessageNoAthletes  = "Wybierz przynajmniej jednego zawodnika"
	MessageDateRange   = "Wybierz zakres dat (od i do)"
	MessageTooMany     = "Wybrano zbyt wielu zawodników"
	MessageFetchFailed = "Nie udało się pobrać wyników"
	MessageNoResults   = "Brak wyników dla wybranych filtrów"
)

// UserMessage returns the text to show for err, or "" when err is not one
// the user can act on.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoAthletes):
		return MessageNoAthletes
	case errors.Is(err, ErrDateRange):
		return MessageDateRange
	case errors.Is(err, ErrTooManyAthletes):
		return MessageTooMany
	case errors.Is(err, ErrFetchResults), errors.Is(err, ErrAthleteLookup):
		return MessageFetchFailed
	default:
		return ""
	}
}
