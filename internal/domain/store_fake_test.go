package domain

import (
	"context"
	"sort"
	"strings"
	"time"
)

// fakeStore is an in-memory Store used by the engine tests.
type fakeStore struct {
	members    map[int64]Member
	plans      map[int64]MembershipPlan
	payments   map[int64]Payment
	attendance map[int64]AttendanceRecord
	nextID     int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members:    make(map[int64]Member),
		plans:      make(map[int64]MembershipPlan),
		payments:   make(map[int64]Payment),
		attendance: make(map[int64]AttendanceRecord),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) FindMemberByID(_ context.Context, id int64) (*Member, error) {
	if m, ok := f.members[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (f *fakeStore) FindMemberByEmail(_ context.Context, email string) (*Member, error) {
	for _, m := range f.members {
		if strings.EqualFold(m.Email, email) {
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateMember(_ context.Context, member Member) (*Member, error) {
	member.ID = f.id()
	member.CreatedAt = member.JoinedAt
	member.UpdatedAt = member.JoinedAt
	f.members[member.ID] = member
	return &member, nil
}

func (f *fakeStore) UpdateMember(_ context.Context, member Member) error {
	f.members[member.ID] = member
	return nil
}

func (f *fakeStore) DeleteMember(_ context.Context, id int64) error {
	delete(f.members, id)
	for pid, p := range f.payments {
		if p.MemberID == id {
			delete(f.payments, pid)
		}
	}
	for aid, a := range f.attendance {
		if a.MemberID == id {
			delete(f.attendance, aid)
		}
	}
	return nil
}

func (f *fakeStore) ListMembers(_ context.Context) ([]Member, error) {
	out := make([]Member, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) FindPlanByID(_ context.Context, id int64) (*MembershipPlan, error) {
	if p, ok := f.plans[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeStore) FindPlanByName(_ context.Context, name string) (*MembershipPlan, error) {
	for _, p := range f.plans {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreatePlan(_ context.Context, plan MembershipPlan) (*MembershipPlan, error) {
	plan.ID = f.id()
	f.plans[plan.ID] = plan
	return &plan, nil
}

func (f *fakeStore) ListPlans(_ context.Context) ([]MembershipPlan, error) {
	out := make([]MembershipPlan, 0, len(f.plans))
	for _, p := range f.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (f *fakeStore) InsertPayment(_ context.Context, payment Payment) (*Payment, error) {
	payment.ID = f.id()
	payment.CreatedAt = payment.PaidAt
	f.payments[payment.ID] = payment
	return &payment, nil
}

func (f *fakeStore) LatestCompletedPayment(_ context.Context, memberID int64) (*Payment, error) {
	var latest *Payment
	for _, p := range f.payments {
		if p.MemberID != memberID || p.Status != PaymentStatusCompleted {
			continue
		}
		p := p
		if latest == nil || p.PaidAt.After(latest.PaidAt) {
			latest = &p
		}
	}
	return latest, nil
}

func (f *fakeStore) ListPayments(_ context.Context) ([]Payment, error) {
	out := make([]Payment, 0, len(f.payments))
	for _, p := range f.payments {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

func (f *fakeStore) ListPaymentsByMember(ctx context.Context, memberID int64) ([]Payment, error) {
	all, _ := f.ListPayments(ctx)
	out := all[:0:0]
	for _, p := range all {
		if p.MemberID == memberID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertAttendance(_ context.Context, memberID int64, checkIn time.Time) (*AttendanceRecord, error) {
	record := AttendanceRecord{
		ID:          f.id(),
		MemberID:    memberID,
		CheckedInAt: checkIn,
		CreatedAt:   checkIn,
	}
	f.attendance[record.ID] = record
	return &record, nil
}

func (f *fakeStore) FindAttendanceByID(_ context.Context, id int64) (*AttendanceRecord, error) {
	if a, ok := f.attendance[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (f *fakeStore) FindOpenSession(_ context.Context, memberID int64) (*AttendanceRecord, error) {
	for _, a := range f.attendance {
		if a.MemberID == memberID && a.Open() {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CloseAttendance(_ context.Context, id int64, checkOut time.Time, durationMinutes int) error {
	record, ok := f.attendance[id]
	if !ok || !record.Open() {
		return ErrInvalidState
	}
	record.CheckedOutAt = &checkOut
	record.DurationMinutes = &durationMinutes
	f.attendance[id] = record
	return nil
}

func (f *fakeStore) ListAttendanceByMember(_ context.Context, memberID int64) ([]AttendanceRecord, error) {
	var out []AttendanceRecord
	for _, a := range f.attendance {
		if a.MemberID == memberID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckedInAt.After(out[j].CheckedInAt) })
	return out, nil
}

var _ Store = (*fakeStore)(nil)
