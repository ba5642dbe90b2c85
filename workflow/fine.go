package workflow

import "time"

// Fine is the charge for a loan due at dueAt as of now: whole days
// overdue (partial days round down) times the per-day rate, never
// negative. The same formula is used when freezing the fine at return
// time and when recomputing it live for still-open loans.
func Fine(now, dueAt time.Time, ratePerDay int64) int64 {
	if !now.After(dueAt) {
		return 0
	}
	days := int64(now.Sub(dueAt) / (24 * time.Hour))
	return days * ratePerDay
}
