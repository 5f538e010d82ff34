// Package season holds the per-season roster lock schedule.
package season

import "time"

// LockSchedule maps a season year to the instant after which its rosters
// may no longer be changed. Seasons without an entry are open.
type LockSchedule struct {
	locks map[int]time.Time
}

func NewLockSchedule(locks map[int]time.Time) LockSchedule {
	copied := make(map[int]time.Time, len(locks))
	for year, at := range locks {
		copied[year] = at
	}
	return LockSchedule{locks: copied}
}

// Locked reports whether roster mutation is refused for the season at the
// given instant. The lock instant itself is still open; mutation is refused
// strictly after it.
func (s LockSchedule) Locked(year int, at time.Time) bool {
	lockAt, ok := s.locks[year]
	if !ok {
		return false
	}
	return at.After(lockAt)
}

// LockAt returns the configured lock instant for a season, if any.
func (s LockSchedule) LockAt(year int) (time.Time, bool) {
	lockAt, ok := s.locks[year]
	return lockAt, ok
}
