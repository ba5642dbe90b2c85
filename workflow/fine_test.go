package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"library-management-backend/workflow"
)

func Test_Fine(t *testing.T) {
	due := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		rate int64
		want int64
	}{
		{
			name: "before_due_date_is_free",
			now:  due.Add(-48 * time.Hour),
			rate: 10,
			want: 0,
		},
		{
			name: "exactly_at_due_date_is_free",
			now:  due,
			rate: 10,
			want: 0,
		},
		{
			name: "partial_day_rounds_down_to_zero",
			now:  due.Add(23 * time.Hour),
			rate: 10,
			want: 0,
		},
		{
			name: "one_full_day",
			now:  due.Add(24 * time.Hour),
			rate: 10,
			want: 10,
		},
		{
			name: "ten_days_overdue",
			now:  due.Add(10 * 24 * time.Hour),
			rate: 10,
			want: 100,
		},
		{
			name: "partial_eleventh_day_still_charges_ten",
			now:  due.Add(10*24*time.Hour + 13*time.Hour),
			rate: 10,
			want: 100,
		},
		{
			name: "other_rate",
			now:  due.Add(3 * 24 * time.Hour),
			rate: 25,
			want: 75,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, workflow.Fine(tc.now, due, tc.rate))
		})
	}
}

func Test_Fine_NeverDecreasesAsTimeAdvances(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	prev := int64(-1)
	for h := 0; h <= 31*24; h += 7 {
		now := due.Add(time.Duration(h) * time.Hour)
		fine := workflow.Fine(now, due, 10)
		assert.GreaterOrEqual(t, fine, prev, "fine dropped at +%dh", h)
		assert.GreaterOrEqual(t, fine, int64(0))
		prev = fine
	}
}
