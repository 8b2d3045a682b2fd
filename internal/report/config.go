package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds configuration for one compare run.
type Config struct {
	BackendURL     string        // Base URL of the club backend
	Timeout        time.Duration // Backend request timeout
	Token          string        // Bearer token, if already logged in
	Login          string        // Login used when Token is empty
	Password       string        // Password for Login
	AthleteIDs     []int         // Athletes to compare
	Metric         string        // Metric key, e.g. jumpLength
	From           time.Time     // First day of the range
	To             time.Time     // Last day of the range
	EventID        int           // Restrict to one event when set
	SameEventsOnly bool          // Keep only events every athlete attended
	MaxAthletes    int           // Upper bound on AthleteIDs
	OutputFile     string        // Optional JSON dump of the comparison
	LogFile        string        // Optional log file next to stderr
	Verbose        bool          // Enable debug logging
}

// ParseIDs reads a comma separated list of positive ids.
func ParseIDs(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid athlete id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseDate reads an ISO date; an empty string is the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
