package domain

import (
	"context"
	"time"
)

// MemberStore captures member persistence operations. Lookup methods return
// (nil, nil) when no row matches.
type MemberStore interface {
	FindMemberByID(ctx context.Context, id int64) (*Member, error)
	// FindMemberByEmail matches case-insensitively.
	FindMemberByEmail(ctx context.Context, email string) (*Member, error)
	CreateMember(ctx context.Context, member Member) (*Member, error)
	UpdateMember(ctx context.Context, member Member) error
	DeleteMember(ctx context.Context, id int64) error
	ListMembers(ctx context.Context) ([]Member, error)
}

// PlanStore captures membership plan persistence operations.
type PlanStore interface {
	FindPlanByID(ctx context.Context, id int64) (*MembershipPlan, error)
	FindPlanByName(ctx context.Context, name string) (*MembershipPlan, error)
	CreatePlan(ctx context.Context, plan MembershipPlan) (*MembershipPlan, error)
	ListPlans(ctx context.Context) ([]MembershipPlan, error)
}

// PaymentStore captures payment persistence operations.
type PaymentStore interface {
	InsertPayment(ctx context.Context, payment Payment) (*Payment, error)
	// LatestCompletedPayment returns the most recent completed payment for
	// the member, or (nil, nil) if there is none.
	LatestCompletedPayment(ctx context.Context, memberID int64) (*Payment, error)
	ListPayments(ctx context.Context) ([]Payment, error)
	ListPaymentsByMember(ctx context.Context, memberID int64) ([]Payment, error)
}

// AttendanceStore captures attendance persistence operations.
type AttendanceStore interface {
	InsertAttendance(ctx context.Context, memberID int64, checkIn time.Time) (*AttendanceRecord, error)
	FindAttendanceByID(ctx context.Context, id int64) (*AttendanceRecord, error)
	// FindOpenSession returns the member's open record, or (nil, nil).
	FindOpenSession(ctx context.Context, memberID int64) (*AttendanceRecord, error)
	// CloseAttendance sets the check-out time and duration on an open record.
	CloseAttendance(ctx context.Context, id int64, checkOut time.Time, durationMinutes int) error
	ListAttendanceByMember(ctx context.Context, memberID int64) ([]AttendanceRecord, error)
}

// Store is the full persistence surface consumed by the engines.
type Store interface {
	MemberStore
	PlanStore
	PaymentStore
	AttendanceStore
}
