package domain

import "time"

// AverageDuration returns the mean duration over closed sessions, in minutes.
// Open sessions are skipped; zero when no session has a duration yet.
func AverageDuration(records []AttendanceRecord) float64 {
	var sum, count int
	for _, r := range records {
		if r.DurationMinutes == nil {
			continue
		}
		sum += *r.DurationMinutes
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// CheckInsByMember counts check-ins per member id.
func CheckInsByMember(records []AttendanceRecord) map[int64]int {
	counts := make(map[int64]int)
	for _, r := range records {
		counts[r.MemberID]++
	}
	return counts
}

// CheckInsOnDay counts check-ins that fall on the same calendar date as day,
// compared in day's location.
func CheckInsOnDay(records []AttendanceRecord, day time.Time) int {
	wantYear, wantMonth, wantDay := day.Date()
	var count int
	for _, r := range records {
		y, m, d := r.CheckedInAt.In(day.Location()).Date()
		if y == wantYear && m == wantMonth && d == wantDay {
			count++
		}
	}
	return count
}

// PeakCheckInHour returns the hour of day (0-23, UTC) with the most check-ins
// and its count. The earliest hour wins ties; (-1, 0) when there are no
// records.
func PeakCheckInHour(records []AttendanceRecord) (int, int) {
	var buckets [24]int
	for _, r := range records {
		buckets[r.CheckedInAt.UTC().Hour()]++
	}

	peakHour, peakCount := -1, 0
	for hour, count := range buckets {
		if count > peakCount {
			peakHour, peakCount = hour, count
		}
	}
	return peakHour, peakCount
}
