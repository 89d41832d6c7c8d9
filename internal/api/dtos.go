package api

import (
	"time"

	"github.com/Jospinra/gym-memberships-tracker/internal/domain"
)

// RegisterMemberRequest is the payload for POST /api/members.
type RegisterMemberRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	PlanID *int64 `json:"membership_plan_id"`
}

// UpdateMemberRequest is the payload for PUT /api/members/{id}.
type UpdateMemberRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// CreatePlanRequest is the payload for POST /api/plans.
type CreatePlanRequest struct {
	Name           string  `json:"name"`
	DurationMonths int     `json:"duration_months"`
	Price          float64 `json:"price"`
	Description    string  `json:"description"`
}

// RecordPaymentRequest is the payload for POST /api/payments.
type RecordPaymentRequest struct {
	MemberID int64   `json:"member_id"`
	PlanID   *int64  `json:"plan_id"`
	Amount   float64 `json:"amount"`
}

// MemberView exposes a member record.
type MemberView struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
	PlanID   *int64    `json:"membership_plan_id"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"join_date"`
}

// PlanView exposes a membership plan.
type PlanView struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	DurationMonths int     `json:"duration_months"`
	Price          float64 `json:"price"`
	Description    string  `json:"description,omitempty"`
}

// PaymentView exposes a payment record.
type PaymentView struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"member_id"`
	PlanID    *int64    `json:"plan_id"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"payment_date"`
	ExpiresAt string    `json:"expiry_date"`
	Status    string    `json:"status"`
}

// AttendanceView exposes an attendance record.
type AttendanceView struct {
	ID              int64      `json:"id"`
	MemberID        int64      `json:"member_id"`
	CheckedInAt     time.Time  `json:"check_in_date"`
	CheckedOutAt    *time.Time `json:"check_out_date"`
	DurationMinutes *int       `json:"duration_minutes"`
}

// RevenueReportResponse packages completed-payment revenue totals.
type RevenueReportResponse struct {
	TotalRevenue float64           `json:"total_revenue"`
	ByPlan       map[int64]float64 `json:"by_plan"`
}

// AttendanceReportResponse packages per-member attendance statistics.
type AttendanceReportResponse struct {
	MemberID        int64   `json:"member_id"`
	TotalVisits     int     `json:"total_visits"`
	AverageDuration float64 `json:"average_duration_minutes"`
	TodayCheckIns   int     `json:"today_checkins"`
	PeakHour        int     `json:"peak_hour"`
	PeakHourVisits  int     `json:"peak_hour_visits"`
}

func toMemberView(m domain.Member) MemberView {
	return MemberView{
		ID:       m.ID,
		Name:     m.Name,
		Email:    m.Email,
		Phone:    m.Phone,
		PlanID:   m.PlanID,
		Status:   string(m.Status),
		JoinedAt: m.JoinedAt,
	}
}

func toPlanView(p domain.MembershipPlan) PlanView {
	return PlanView{
		ID:             p.ID,
		Name:           p.Name,
		DurationMonths: p.DurationMonths,
		Price:          p.Price,
		Description:    p.Description,
	}
}

func toPaymentView(p domain.Payment) PaymentView {
	return PaymentView{
		ID:        p.ID,
		MemberID:  p.MemberID,
		PlanID:    p.PlanID,
		Amount:    p.Amount,
		PaidAt:    p.PaidAt,
		ExpiresAt: p.ExpiresAt.Format("2006-01-02"),
		Status:    string(p.Status),
	}
}

func toAttendanceView(a domain.AttendanceRecord) AttendanceView {
	return AttendanceView{
		ID:              a.ID,
		MemberID:        a.MemberID,
		CheckedInAt:     a.CheckedInAt,
		CheckedOutAt:    a.CheckedOutAt,
		DurationMinutes: a.DurationMinutes,
	}
}
