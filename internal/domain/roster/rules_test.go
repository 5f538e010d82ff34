package roster

import (
	"errors"
	"testing"
)

func TestValidateRoster(t *testing.T) {
	rules := DefaultRules()
	validPicks := []Pick{
		{RiderID: "r1", Price: 3000},
		{RiderID: "r2", Price: 3000},
		{RiderID: "r3", Price: 3000},
	}

	tests := []struct {
		name      string
		teamName  string
		mutate    func([]Pick) []Pick
		targetErr error
	}{
		{
			name:     "valid roster",
			teamName: "Team Gilbert",
			mutate:   func(picks []Pick) []Pick { return picks },
		},
		{
			name:      "name too short after trimming",
			teamName:  " x ",
			mutate:    func(picks []Pick) []Pick { return picks },
			targetErr: ErrEmptyName,
		},
		{
			name:      "empty roster",
			teamName:  "Team Gilbert",
			mutate:    func([]Pick) []Pick { return nil },
			targetErr: ErrEmptyRoster,
		},
		{
			name:     "too many riders",
			teamName: "Team Gilbert",
			mutate: func([]Pick) []Pick {
				picks := make([]Pick, 13)
				for i := range picks {
					picks[i] = Pick{RiderID: string(rune('a' + i)), Price: 100}
				}
				return picks
			},
			targetErr: ErrRosterTooLarge,
		},
		{
			name:     "blank rider id",
			teamName: "Team Gilbert",
			mutate: func(picks []Pick) []Pick {
				picks[1].RiderID = ""
				return picks
			},
			targetErr: ErrBlankRiderID,
		},
		{
			name:     "duplicate rider regardless of total price",
			teamName: "Team Gilbert",
			mutate: func(picks []Pick) []Pick {
				picks[2].RiderID = "r1"
				return picks
			},
			targetErr: ErrDuplicateRider,
		},
		{
			name:     "budget exceeded",
			teamName: "Team Gilbert",
			mutate: func(picks []Pick) []Pick {
				picks[0].Price = 5050
				return picks
			},
			targetErr: ErrBudgetExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picks := tt.mutate(append([]Pick(nil), validPicks...))

			err := ValidateRoster(tt.teamName, picks, rules)
			if tt.targetErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected error %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestValidateRoster_BudgetExceededAmount(t *testing.T) {
	picks := []Pick{
		{RiderID: "r1", Price: 4000},
		{RiderID: "r2", Price: 4000},
		{RiderID: "r3", Price: 3050},
	}

	err := ValidateRoster("Team Gilbert", picks, Rules{MaxSlots: 12, BudgetCap: 11000})

	var budgetErr *BudgetExceededError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("expected BudgetExceededError, got %v", err)
	}
	if budgetErr.Over() != 50 {
		t.Fatalf("expected over=50, got %d", budgetErr.Over())
	}
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected errors.Is(err, ErrBudgetExceeded)")
	}
}

func TestValidateRoster_DuplicateBeatsBudget(t *testing.T) {
	// Uniqueness is checked before the budget, so a duplicate pick is
	// reported even when the total also exceeds the cap.
	picks := []Pick{
		{RiderID: "r1", Price: 9000},
		{RiderID: "r1", Price: 9000},
	}

	err := ValidateRoster("Team Gilbert", picks, DefaultRules())
	if !errors.Is(err, ErrDuplicateRider) {
		t.Fatalf("expected ErrDuplicateRider, got %v", err)
	}
}

func TestTotalCost(t *testing.T) {
	picks := []Pick{
		{RiderID: "r1", Price: 3000},
		{RiderID: "r2", Price: 2500},
	}
	if got := TotalCost(picks); got != 5500 {
		t.Fatalf("expected total 5500, got %d", got)
	}
	if got := TotalCost(nil); got != 0 {
		t.Fatalf("expected total 0 for empty picks, got %d", got)
	}
}
