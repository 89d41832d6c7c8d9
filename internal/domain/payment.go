package domain

import "time"

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is a single discrete payment event. Payments are never mutated or
// deleted; the full history is retained per member. Only completed payments
// count toward subscription validity and revenue.
type Payment struct {
	ID        int64
	MemberID  int64
	PlanID    *int64
	Amount    float64
	PaidAt    time.Time
	ExpiresAt time.Time
	Status    PaymentStatus
	CreatedAt time.Time
}
