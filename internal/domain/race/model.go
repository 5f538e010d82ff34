package race

import "time"

// Race is a single event of the season calendar.
type Race struct {
	ID   string
	Name string
	Date time.Time
}

// Past reports whether the race has already been run as of now.
func (r Race) Past(now time.Time) bool {
	return !r.Date.After(now)
}

// Result is the outcome of one rider in one race. At most one result
// exists per (race, rider) pair.
type Result struct {
	RaceID        string
	RiderID       string
	Rank          int
	PointsAwarded int64
}

// ResultDetail is a result joined with rider display fields.
type ResultDetail struct {
	Rank          int
	PointsAwarded int64
	RiderName     string
	Sponsor       string
}
