package roster

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyName      = errors.New("team name too short")
	ErrEmptyRoster    = errors.New("roster is empty")
	ErrRosterTooLarge = errors.New("roster exceeds slot capacity")
	ErrBlankRiderID   = errors.New("rider id is required")
	ErrDuplicateRider = errors.New("duplicate rider in roster")
	ErrBudgetExceeded = errors.New("budget ceiling exceeded")
)

// Rules stores roster validation parameters.
type Rules struct {
	MaxSlots  int
	BudgetCap int64
}

func DefaultRules() Rules {
	return Rules{
		MaxSlots:  12,
		BudgetCap: 11000,
	}
}

// Pick is one candidate roster entry with its catalog price.
type Pick struct {
	RiderID string
	Price   int64
}

// BudgetExceededError reports how far a candidate roster overshoots the cap.
type BudgetExceededError struct {
	Cap  int64
	Used int64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("budget ceiling exceeded: cap=%d used=%d over=%d", e.Cap, e.Used, e.Over())
}

func (e *BudgetExceededError) Over() int64 {
	return e.Used - e.Cap
}

func (e *BudgetExceededError) Is(target error) bool {
	return target == ErrBudgetExceeded
}

// ValidateRoster decides whether a candidate roster is legal. Checks run in a
// fixed order so the caller always gets the first applicable rejection: name,
// occupancy, capacity, uniqueness, budget. It is a pure decision function; the
// caller is responsible for resolving prices from the catalog beforehand.
func ValidateRoster(name string, picks []Pick, rules Rules) error {
	if len(strings.TrimSpace(name)) < 2 {
		return fmt.Errorf("%w: need at least 2 characters", ErrEmptyName)
	}
	if len(picks) == 0 {
		return fmt.Errorf("%w: pick at least one rider", ErrEmptyRoster)
	}
	if rules.MaxSlots > 0 && len(picks) > rules.MaxSlots {
		return fmt.Errorf("%w: max=%d got=%d", ErrRosterTooLarge, rules.MaxSlots, len(picks))
	}

	seen := make(map[string]struct{}, len(picks))
	var total int64
	for _, pick := range picks {
		if pick.RiderID == "" {
			return fmt.Errorf("%w: every pick needs one", ErrBlankRiderID)
		}
		if _, dup := seen[pick.RiderID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateRider, pick.RiderID)
		}
		seen[pick.RiderID] = struct{}{}
		total += pick.Price
	}

	if total > rules.BudgetCap {
		return &BudgetExceededError{Cap: rules.BudgetCap, Used: total}
	}

	return nil
}

// TotalCost sums the catalog prices of a candidate roster.
func TotalCost(picks []Pick) int64 {
	var total int64
	for _, pick := range picks {
		total += pick.Price
	}
	return total
}
