package domain

import (
	"context"
	"fmt"
	"math"
	"time"
)

// AttendanceService is the attendance session manager. A session moves from
// open (checked in) to closed (checked out) exactly once; closing derives the
// duration from the two timestamps.
type AttendanceService struct {
	store Store
	now   func() time.Time
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(store Store) *AttendanceService {
	return &AttendanceService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// CheckIn opens a new attendance session for the member. Only active members
// may check in, and a member can hold at most one open session at a time.
func (s *AttendanceService) CheckIn(ctx context.Context, memberID int64) (*AttendanceRecord, error) {
	if memberID <= 0 {
		return nil, fmt.Errorf("%w: member_id is required", ErrValidation)
	}

	member, err := s.store.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: member %d", ErrNotFound, memberID)
	}
	if member.Status != MemberStatusActive {
		return nil, fmt.Errorf("%w: member is %s", ErrIneligible, member.Status)
	}

	open, err := s.store.FindOpenSession(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, fmt.Errorf("%w: member already checked in", ErrConflict)
	}

	return s.store.InsertAttendance(ctx, memberID, s.now())
}

// CheckOut closes an open session and returns the derived duration in
// minutes. A check-out time before the check-in time is rejected rather than
// clamped, so clock skew never produces a negative duration.
func (s *AttendanceService) CheckOut(ctx context.Context, attendanceID int64) (int, error) {
	record, err := s.store.FindAttendanceByID(ctx, attendanceID)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, fmt.Errorf("%w: attendance record %d", ErrNotFound, attendanceID)
	}
	if !record.Open() {
		return 0, fmt.Errorf("%w: session already checked out", ErrInvalidState)
	}

	checkOut := s.now()
	if checkOut.Before(record.CheckedInAt) {
		return 0, fmt.Errorf("%w: check-out before check-in", ErrInvalidState)
	}

	minutes := DurationMinutes(record.CheckedInAt, checkOut)
	if err := s.store.CloseAttendance(ctx, attendanceID, checkOut, minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

// History returns the member's attendance records, most recent check-in first.
func (s *AttendanceService) History(ctx context.Context, memberID int64) ([]AttendanceRecord, error) {
	member, err := s.store.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: member %d", ErrNotFound, memberID)
	}
	return s.store.ListAttendanceByMember(ctx, memberID)
}

// DurationMinutes computes a session length in whole minutes with standard
// rounding: a 30-second visit counts as 1 minute.
func DurationMinutes(checkIn, checkOut time.Time) int {
	return int(math.Round(checkOut.Sub(checkIn).Minutes()))
}
