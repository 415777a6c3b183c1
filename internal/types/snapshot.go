package types

import "time"

// Snapshot is one complete result set from a single successful fetch.
// It is never mutated after construction; a new fetch replaces it wholesale.
type Snapshot struct {
	Running      []Movie    `json:"runningMovies"`
	TopIndian    []Movie    `json:"topIndianAllTime"`
	TopWorldwide []Movie    `json:"topWorldwideAllTime"`
	Sources      []Citation `json:"sources"`
	FetchedAt    time.Time  `json:"fetchedAt"`
	LastUpdated  string     `json:"lastUpdated"`
}

// Movies returns the list for one category. The lists are kept apart since
// their numeric units differ.
func (s *Snapshot) Movies(c Category) []Movie {
	if s == nil {
		return nil
	}
	switch c {
	case CategoryRunning:
		return s.Running
	case CategoryTopIndian:
		return s.TopIndian
	case CategoryTopWorldwide:
		return s.TopWorldwide
	}
	return nil
}

// Len is the total number of records across all categories.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Running) + len(s.TopIndian) + len(s.TopWorldwide)
}

// FetchState mirrors the dashboard load lifecycle.
type FetchState string

const (
	FetchIdle    FetchState = "IDLE"
	FetchLoading FetchState = "LOADING"
	FetchSuccess FetchState = "SUCCESS"
	FetchError   FetchState = "ERROR"
)

// IST is the default display zone for freshness stamps.
var IST = time.FixedZone("IST", 5*60*60+30*60)

const freshnessLayout = "2 Jan 2006, 03:04 pm"

// FormatFreshness renders t the way an en-IN locale prints a short date with
// hour and minute, e.g. "19 Oct 2026, 03:45 pm".
func FormatFreshness(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = IST
	}
	return t.In(loc).Format(freshnessLayout)
}

// LoadLocation resolves a zone name, falling back to IST.
func LoadLocation(name string) *time.Location {
	switch name {
	case "", "IST", "Asia/Kolkata", "Asia/Calcutta":
		return IST
	case "UTC":
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return IST
	}
	return loc
}
