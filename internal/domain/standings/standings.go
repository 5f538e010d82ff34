// Package standings holds the pure leaderboard aggregation. It never touches
// storage: callers fetch teams and race results first and feed them in.
package standings

import "sort"

// Entry is one ranked row of a leaderboard.
type Entry struct {
	TeamID    string
	TeamName  string
	OwnerName string
	Points    int64
}

// TeamRoster is the scoring view of a team: identity plus the rider ids of
// its current roster. Rosters are not race-dated, so a race recomputed after
// a re-roster scores against the new composition.
type TeamRoster struct {
	TeamID    string
	TeamName  string
	OwnerName string
	RiderIDs  []string
}

// General ranks season-cumulative entries by points descending. Ties are
// broken by team id ascending so the ranking does not depend on the order
// the store returned equal-score rows in.
func General(entries []Entry) []Entry {
	ranked := append([]Entry(nil), entries...)
	sortEntries(ranked)
	return ranked
}

// ScoreRace computes the single-race leaderboard. Each team scores the sum
// of points awarded to its roster riders in the result set; teams scoring
// exactly 0 are left out entirely rather than ranked last.
func ScoreRace(pointsByRider map[string]int64, teams []TeamRoster) []Entry {
	ranked := make([]Entry, 0, len(teams))
	for _, team := range teams {
		var score int64
		for _, riderID := range team.RiderIDs {
			score += pointsByRider[riderID]
		}
		if score == 0 {
			continue
		}
		ranked = append(ranked, Entry{
			TeamID:    team.TeamID,
			TeamName:  team.TeamName,
			OwnerName: team.OwnerName,
			Points:    score,
		})
	}

	sortEntries(ranked)
	return ranked
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].TeamID < entries[j].TeamID
	})
}
