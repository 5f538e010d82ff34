package identity

import (
	"errors"
	"time"
)

// ErrCodeAlreadyLinked is returned by profile stores when a second profile
// creation races the first for the same access code. The loser re-reads the
// winner's profile instead of failing the exchange.
var ErrCodeAlreadyLinked = errors.New("access code already linked to a profile")

// AccessCode is a one-time-use string exchanged for an identity token.
// AssignedUserID is empty until a profile has been linked.
type AccessCode struct {
	ID             string
	Code           string
	Active         bool
	AssignedUserID string
	CreatedAt      time.Time
}

// Profile is the player identity provisioned for an access code.
type Profile struct {
	ID              string
	AccessCodeID    string
	DisplayName     string
	ProfileImageURL string
	CreatedAt       time.Time
}

// CodeWithProfile is the admin listing view: a code plus its linked profile,
// nil when the code has never been redeemed.
type CodeWithProfile struct {
	AccessCode
	Profile *Profile
}

// Principal is the authenticated subject resolved from a bearer token.
type Principal struct {
	UserID      string
	DisplayName string
}
