// Package postgres provides the pgx-backed implementation of domain.Store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jospinra/gym-memberships-tracker/internal/domain"
	"github.com/Jospinra/gym-memberships-tracker/internal/observability"
)

const uniqueViolation = "23505"

// Repository provides Postgres-backed persistence for members, plans,
// payments and attendance records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Ping reports store reachability; the API layer uses it to degrade to 503.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the underlying pool.
func (r *Repository) Close() {
	r.pool.Close()
}

const memberColumns = `id, name, email, phone, membership_plan_id, status, join_date, created_at, updated_at`

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.PlanID, &m.Status, &m.JoinedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// FindMemberByID returns the member or (nil, nil) when absent.
func (r *Repository) FindMemberByID(ctx context.Context, id int64) (*domain.Member, error) {
	const query = `SELECT ` + memberColumns + ` FROM members WHERE id=$1`
	return scanMember(r.pool.QueryRow(ctx, query, id))
}

// FindMemberByEmail matches case-insensitively.
func (r *Repository) FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	const query = `SELECT ` + memberColumns + ` FROM members WHERE lower(email)=lower($1)`
	return scanMember(r.pool.QueryRow(ctx, query, email))
}

// CreateMember inserts the member and returns it with store-assigned fields.
func (r *Repository) CreateMember(ctx context.Context, member domain.Member) (*domain.Member, error) {
	const stmt = `INSERT INTO members (name, email, phone, membership_plan_id, status, join_date)
        VALUES ($1,$2,$3,$4,$5,$6) RETURNING ` + memberColumns

	created, err := scanMember(r.pool.QueryRow(ctx, stmt,
		member.Name, member.Email, member.Phone, member.PlanID, member.Status, member.JoinedAt))
	if err != nil {
		return nil, mapConstraint(err)
	}
	return created, nil
}

// UpdateMember replaces the mutable profile columns.
func (r *Repository) UpdateMember(ctx context.Context, member domain.Member) error {
	const stmt = `UPDATE members SET name=$1, email=$2, phone=$3, status=$4, updated_at=now() WHERE id=$5`
	tag, err := r.pool.Exec(ctx, stmt, member.Name, member.Email, member.Phone, member.Status, member.ID)
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: member %d", domain.ErrNotFound, member.ID)
	}
	return nil
}

// DeleteMember removes the member; payments and attendance cascade via FK.
func (r *Repository) DeleteMember(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: member %d", domain.ErrNotFound, id)
	}
	return nil
}

// ListMembers returns all members, newest first.
func (r *Repository) ListMembers(ctx context.Context) ([]domain.Member, error) {
	const query = `SELECT ` + memberColumns + ` FROM members ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.PlanID, &m.Status, &m.JoinedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

const planColumns = `id, name, duration_months, price, description, created_at`

func scanPlan(row pgx.Row) (*domain.MembershipPlan, error) {
	var p domain.MembershipPlan
	err := row.Scan(&p.ID, &p.Name, &p.DurationMonths, &p.Price, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// FindPlanByID returns the plan or (nil, nil) when absent.
func (r *Repository) FindPlanByID(ctx context.Context, id int64) (*domain.MembershipPlan, error) {
	const query = `SELECT ` + planColumns + ` FROM membership_plans WHERE id=$1`
	return scanPlan(r.pool.QueryRow(ctx, query, id))
}

// FindPlanByName returns the plan or (nil, nil) when absent.
func (r *Repository) FindPlanByName(ctx context.Context, name string) (*domain.MembershipPlan, error) {
	const query = `SELECT ` + planColumns + ` FROM membership_plans WHERE name=$1`
	return scanPlan(r.pool.QueryRow(ctx, query, name))
}

// CreatePlan inserts the plan.
func (r *Repository) CreatePlan(ctx context.Context, plan domain.MembershipPlan) (*domain.MembershipPlan, error) {
	const stmt = `INSERT INTO membership_plans (name, duration_months, price, description)
        VALUES ($1,$2,$3,$4) RETURNING ` + planColumns

	created, err := scanPlan(r.pool.QueryRow(ctx, stmt, plan.Name, plan.DurationMonths, plan.Price, plan.Description))
	if err != nil {
		return nil, mapConstraint(err)
	}
	return created, nil
}

// ListPlans returns all plans, cheapest first.
func (r *Repository) ListPlans(ctx context.Context) ([]domain.MembershipPlan, error) {
	const query = `SELECT ` + planColumns + ` FROM membership_plans ORDER BY price ASC, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.MembershipPlan
	for rows.Next() {
		var p domain.MembershipPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationMonths, &p.Price, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

const paymentColumns = `id, member_id, plan_id, amount, payment_date, expiry_date, status, created_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.MemberID, &p.PlanID, &p.Amount, &p.PaidAt, &p.ExpiresAt, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// InsertPayment persists a payment row.
func (r *Repository) InsertPayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error) {
	const stmt = `INSERT INTO payments (member_id, plan_id, amount, payment_date, expiry_date, status)
        VALUES ($1,$2,$3,$4,$5,$6) RETURNING ` + paymentColumns

	created, err := scanPayment(r.pool.QueryRow(ctx, stmt,
		payment.MemberID, payment.PlanID, payment.Amount, payment.PaidAt, payment.ExpiresAt, payment.Status))
	if err != nil {
		return nil, err
	}
	observability.RecordPayment(created.Amount, created.PaidAt)
	return created, nil
}

// LatestCompletedPayment returns the member's most recent completed payment,
// or (nil, nil) when there is none.
func (r *Repository) LatestCompletedPayment(ctx context.Context, memberID int64) (*domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments
        WHERE member_id=$1 AND status='completed'
        ORDER BY payment_date DESC, id DESC LIMIT 1`
	return scanPayment(r.pool.QueryRow(ctx, query, memberID))
}

// ListPayments returns all payments, newest first.
func (r *Repository) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments ORDER BY payment_date DESC, id DESC`
	return r.collectPayments(ctx, query)
}

// ListPaymentsByMember returns the member's payments, newest first.
func (r *Repository) ListPaymentsByMember(ctx context.Context, memberID int64) ([]domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE member_id=$1 ORDER BY payment_date DESC, id DESC`
	return r.collectPayments(ctx, query, memberID)
}

func (r *Repository) collectPayments(ctx context.Context, query string, args ...interface{}) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.MemberID, &p.PlanID, &p.Amount, &p.PaidAt, &p.ExpiresAt, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

const attendanceColumns = `id, member_id, check_in_date, check_out_date, duration_minutes, created_at`

func scanAttendance(row pgx.Row) (*domain.AttendanceRecord, error) {
	var a domain.AttendanceRecord
	err := row.Scan(&a.ID, &a.MemberID, &a.CheckedInAt, &a.CheckedOutAt, &a.DurationMinutes, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// InsertAttendance opens a session. The partial unique index on open sessions
// backs the one-open-session invariant even under concurrent check-ins.
func (r *Repository) InsertAttendance(ctx context.Context, memberID int64, checkIn time.Time) (*domain.AttendanceRecord, error) {
	const stmt = `INSERT INTO attendance (member_id, check_in_date)
        VALUES ($1,$2) RETURNING ` + attendanceColumns

	created, err := scanAttendance(r.pool.QueryRow(ctx, stmt, memberID, checkIn))
	if err != nil {
		return nil, mapConstraint(err)
	}
	observability.RecordCheckIn(created.CheckedInAt)
	return created, nil
}

// FindAttendanceByID returns the record or (nil, nil) when absent.
func (r *Repository) FindAttendanceByID(ctx context.Context, id int64) (*domain.AttendanceRecord, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance WHERE id=$1`
	return scanAttendance(r.pool.QueryRow(ctx, query, id))
}

// FindOpenSession returns the member's open record, or (nil, nil).
func (r *Repository) FindOpenSession(ctx context.Context, memberID int64) (*domain.AttendanceRecord, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance
        WHERE member_id=$1 AND check_out_date IS NULL
        ORDER BY check_in_date DESC LIMIT 1`
	return scanAttendance(r.pool.QueryRow(ctx, query, memberID))
}

// CloseAttendance sets the check-out time and duration. The open-session
// predicate in the statement makes concurrent double check-outs lose the race
// instead of overwriting the first closeout.
func (r *Repository) CloseAttendance(ctx context.Context, id int64, checkOut time.Time, durationMinutes int) error {
	const stmt = `UPDATE attendance SET check_out_date=$1, duration_minutes=$2
        WHERE id=$3 AND check_out_date IS NULL`

	tag, err := r.pool.Exec(ctx, stmt, checkOut, durationMinutes, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session already checked out", domain.ErrInvalidState)
	}
	observability.RecordCheckOut(durationMinutes)
	return nil
}

// ListAttendanceByMember returns the member's records, most recent first.
func (r *Repository) ListAttendanceByMember(ctx context.Context, memberID int64) ([]domain.AttendanceRecord, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance
        WHERE member_id=$1 ORDER BY check_in_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		var a domain.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.MemberID, &a.CheckedInAt, &a.CheckedOutAt, &a.DurationMinutes, &a.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// mapConstraint translates Postgres unique violations into domain conflicts.
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}
