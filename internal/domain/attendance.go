package domain

import "time"

// AttendanceRecord is a single gym visit. A record with a nil CheckedOutAt is
// an open session; closing it sets both the check-out time and the derived
// duration exactly once.
type AttendanceRecord struct {
	ID              int64
	MemberID        int64
	CheckedInAt     time.Time
	CheckedOutAt    *time.Time
	DurationMinutes *int
	CreatedAt       time.Time
}

// Open reports whether the session has not been checked out yet.
func (r AttendanceRecord) Open() bool {
	return r.CheckedOutAt == nil
}
