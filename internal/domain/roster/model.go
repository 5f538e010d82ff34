package roster

import (
	"fmt"
	"time"
)

// Slot is one position in a team's rider lineup. Order matters only for
// display; scoring never looks at slot numbers.
type Slot struct {
	Slot    int
	RiderID string
}

// Team is a user's fantasy team for one season. OwnerName is a read-side
// join of the owning profile's display name and is never written back.
type Team struct {
	ID        string
	UserID    string
	Season    int
	Name      string
	OwnerName string
	Slots     []Slot
	TotalCost int64
	Points    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) ValidateBasic() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if t.Season <= 0 {
		return fmt.Errorf("season year must be greater than zero")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if len(t.Slots) == 0 {
		return fmt.Errorf("team slots are required")
	}

	return nil
}

// RiderIDs returns the rider ids of every filled slot, in slot order.
func (t Team) RiderIDs() []string {
	ids := make([]string, 0, len(t.Slots))
	for _, s := range t.Slots {
		ids = append(ids, s.RiderID)
	}
	return ids
}
