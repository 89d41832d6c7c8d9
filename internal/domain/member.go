package domain

import "time"

// MemberStatus is the lifecycle state of a gym member.
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "active"
	MemberStatusInactive  MemberStatus = "inactive"
	MemberStatusSuspended MemberStatus = "suspended"
)

// Valid reports whether the status is one of the known states.
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusActive, MemberStatusInactive, MemberStatusSuspended:
		return true
	}
	return false
}

// Member is the canonical member record stored in PostgreSQL.
type Member struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	PlanID    *int64
	Status    MemberStatus
	JoinedAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MembershipPlan is a named tier with a fixed duration and price. Plans are
// treated as immutable once a payment references them so historical expiry
// calculations stay consistent.
type MembershipPlan struct {
	ID             int64
	Name           string
	DurationMonths int
	Price          float64
	Description    string
	CreatedAt      time.Time
}
