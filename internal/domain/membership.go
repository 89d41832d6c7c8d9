// Package domain defines the business logic for the gym membership backend:
// the membership lifecycle engine and the attendance session manager.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MembershipService is the membership lifecycle engine. It owns member and
// plan registration and derives subscription validity from payments.
type MembershipService struct {
	store Store
	now   func() time.Time
}

// NewMembershipService constructs a MembershipService.
func NewMembershipService(store Store) *MembershipService {
	return &MembershipService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// RegisterMemberInput captures the payload for member registration.
type RegisterMemberInput struct {
	Name   string
	Email  string
	Phone  string
	PlanID *int64
}

// RegisterMember creates a new member in the active state. Email uniqueness is
// enforced case-insensitively.
func (s *MembershipService) RegisterMember(ctx context.Context, input RegisterMemberInput) (*Member, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}

	existing, err := s.store.FindMemberByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	if input.PlanID != nil {
		plan, err := s.store.FindPlanByID(ctx, *input.PlanID)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, fmt.Errorf("%w: plan %d", ErrNotFound, *input.PlanID)
		}
	}

	member := Member{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Phone:    strings.TrimSpace(input.Phone),
		PlanID:   input.PlanID,
		Status:   MemberStatusActive,
		JoinedAt: s.now(),
	}
	return s.store.CreateMember(ctx, member)
}

// GetMember fetches a member by id.
func (s *MembershipService) GetMember(ctx context.Context, id int64) (*Member, error) {
	member, err := s.store.FindMemberByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: member %d", ErrNotFound, id)
	}
	return member, nil
}

// ListMembers returns all members, newest first.
func (s *MembershipService) ListMembers(ctx context.Context) ([]Member, error) {
	return s.store.ListMembers(ctx)
}

// UpdateMemberInput captures the payload for a member profile update.
type UpdateMemberInput struct {
	Name   string
	Email  string
	Phone  string
	Status MemberStatus
}

// UpdateMember replaces the member's profile fields. An empty status keeps the
// member active, matching registration defaults.
func (s *MembershipService) UpdateMember(ctx context.Context, id int64, input UpdateMemberInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return fmt.Errorf("%w: name and email are required", ErrValidation)
	}

	status := input.Status
	if status == "" {
		status = MemberStatusActive
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, input.Status)
	}

	member, err := s.store.FindMemberByID(ctx, id)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: member %d", ErrNotFound, id)
	}

	if existing, err := s.store.FindMemberByEmail(ctx, input.Email); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return fmt.Errorf("%w: email already registered", ErrConflict)
	}

	member.Name = strings.TrimSpace(input.Name)
	member.Email = strings.TrimSpace(input.Email)
	member.Phone = strings.TrimSpace(input.Phone)
	member.Status = status
	return s.store.UpdateMember(ctx, *member)
}

// DeleteMember removes the member; payments and attendance cascade with it.
func (s *MembershipService) DeleteMember(ctx context.Context, id int64) error {
	member, err := s.store.FindMemberByID(ctx, id)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: member %d", ErrNotFound, id)
	}
	return s.store.DeleteMember(ctx, id)
}

// CreatePlanInput captures the payload for plan creation.
type CreatePlanInput struct {
	Name           string
	DurationMonths int
	Price          float64
	Description    string
}

// CreatePlan registers a new membership plan.
func (s *MembershipService) CreatePlan(ctx context.Context, input CreatePlanInput) (*MembershipPlan, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.DurationMonths <= 0 {
		return nil, fmt.Errorf("%w: duration_months must be > 0", ErrValidation)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	existing, err := s.store.FindPlanByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: plan name already in use", ErrConflict)
	}

	plan := MembershipPlan{
		Name:           strings.TrimSpace(input.Name),
		DurationMonths: input.DurationMonths,
		Price:          input.Price,
		Description:    input.Description,
	}
	return s.store.CreatePlan(ctx, plan)
}

// ListPlans returns all plans, cheapest first.
func (s *MembershipService) ListPlans(ctx context.Context) ([]MembershipPlan, error) {
	return s.store.ListPlans(ctx)
}

// RecordPaymentInput captures the payload for recording a payment.
type RecordPaymentInput struct {
	MemberID int64
	PlanID   *int64
	Amount   float64
}

// RecordPayment persists a completed payment and computes its expiry date.
// With a plan, expiry is the payment date advanced by the plan's duration in
// calendar months with month-end clamping. Without a plan, expiry equals the
// payment date, so the payment grants no coverage.
func (s *MembershipService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*Payment, error) {
	if input.MemberID <= 0 {
		return nil, fmt.Errorf("%w: member_id is required", ErrValidation)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be > 0", ErrValidation)
	}

	member, err := s.store.FindMemberByID(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: member %d", ErrNotFound, input.MemberID)
	}

	paidAt := s.now()
	expiresAt := paidAt
	if input.PlanID != nil {
		plan, err := s.store.FindPlanByID(ctx, *input.PlanID)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, fmt.Errorf("%w: plan %d", ErrNotFound, *input.PlanID)
		}
		expiresAt = AddMonths(paidAt, plan.DurationMonths)
	}

	payment := Payment{
		MemberID:  input.MemberID,
		PlanID:    input.PlanID,
		Amount:    input.Amount,
		PaidAt:    paidAt,
		ExpiresAt: expiresAt,
		Status:    PaymentStatusCompleted,
	}
	return s.store.InsertPayment(ctx, payment)
}

// ListPayments returns the full payment history, newest first.
func (s *MembershipService) ListPayments(ctx context.Context) ([]Payment, error) {
	return s.store.ListPayments(ctx)
}

// IsSubscriptionActive reports whether the member's most recent completed
// payment expires strictly after now. A member with no completed payments is
// never active, independent of member status.
func (s *MembershipService) IsSubscriptionActive(ctx context.Context, memberID int64, now time.Time) (bool, error) {
	latest, err := s.store.LatestCompletedPayment(ctx, memberID)
	if err != nil {
		return false, err
	}
	if latest == nil {
		return false, nil
	}
	return latest.ExpiresAt.After(now), nil
}

// Revenue sums amounts over completed payments, optionally filtered to a
// single plan. Pure aggregation, no side effects.
func Revenue(payments []Payment, planID *int64) float64 {
	var total float64
	for _, p := range payments {
		if p.Status != PaymentStatusCompleted {
			continue
		}
		if planID != nil && (p.PlanID == nil || *p.PlanID != *planID) {
			continue
		}
		total += p.Amount
	}
	return total
}

// RevenueByPlan groups completed-payment revenue by plan id. Payments without
// a plan are keyed under zero.
func RevenueByPlan(payments []Payment) map[int64]float64 {
	totals := make(map[int64]float64)
	for _, p := range payments {
		if p.Status != PaymentStatusCompleted {
			continue
		}
		var key int64
		if p.PlanID != nil {
			key = *p.PlanID
		}
		totals[key] += p.Amount
	}
	return totals
}
