package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*3600)

func at(day time.Time, hm string) time.Time {
	t, _ := time.ParseInLocation("15:04", hm, jst)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, jst)
}

func TestIntervalOverlaps(t *testing.T) {
	day := time.Date(2030, 6, 3, 0, 0, 0, 0, jst)
	iv := Interval{Start: at(day, "10:00"), End: at(day, "11:00")}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"fully inside", "10:10", "10:20", true},
		{"exact match", "10:00", "11:00", true},
		{"straddles start", "09:45", "10:15", true},
		{"straddles end", "10:45", "11:15", true},
		{"ends exactly at busy start", "09:30", "10:00", false},
		{"starts exactly at busy end", "11:00", "11:30", false},
		{"entirely before", "08:00", "08:30", false},
		{"entirely after", "12:00", "12:30", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := iv.Overlaps(at(day, tt.start), at(day, tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailableSlots(t *testing.T) {
	// 2030-06-03 is a Monday.
	monday := time.Date(2030, 6, 3, 0, 0, 0, 0, jst)
	friday := time.Date(2030, 6, 7, 0, 0, 0, 0, jst)
	saturday := time.Date(2030, 6, 8, 0, 0, 0, 0, jst)
	sunday := time.Date(2030, 6, 9, 0, 0, 0, 0, jst)

	farBefore := monday.AddDate(0, 0, -7)

	tests := []struct {
		name string
		day  time.Time
		busy []Interval
		now  time.Time
		want []string
	}{
		{
			name: "monday, fully open",
			day:  monday,
			now:  farBefore,
			want: []string{"10:00", "11:00", "14:00", "16:00", "19:00"},
		},
		{
			name: "friday has no evening slot",
			day:  friday,
			now:  farBefore,
			want: []string{"10:00", "11:00", "14:00", "16:00"},
		},
		{
			name: "saturday morning template",
			day:  saturday,
			now:  farBefore,
			want: []string{"09:00", "10:00", "11:00"},
		},
		{
			name: "sunday is closed",
			day:  sunday,
			now:  farBefore,
			want: []string{},
		},
		{
			name: "busy interval removes only the overlapping slot",
			day:  monday,
			busy: []Interval{{Start: at(monday, "14:00"), End: at(monday, "14:30")}},
			now:  farBefore,
			want: []string{"10:00", "11:00", "16:00", "19:00"},
		},
		{
			name: "busy ending exactly at slot start does not conflict",
			day:  monday,
			busy: []Interval{{Start: at(monday, "09:30"), End: at(monday, "10:00")}},
			now:  farBefore,
			want: []string{"10:00", "11:00", "14:00", "16:00", "19:00"},
		},
		{
			name: "long busy block removes everything it covers",
			day:  monday,
			busy: []Interval{{Start: at(monday, "10:00"), End: at(monday, "17:00")}},
			now:  farBefore,
			want: []string{"19:00"},
		},
		{
			name: "lead time hides slots starting within four hours",
			day:  monday,
			now:  at(monday, "07:00"),
			want: []string{"11:00", "14:00", "16:00", "19:00"},
		},
		{
			name: "slot starting exactly four hours out is still offered",
			day:  monday,
			now:  at(monday, "10:00"),
			want: []string{"14:00", "16:00", "19:00"},
		},
		{
			name: "same day evening, everything already too close",
			day:  monday,
			now:  at(monday, "18:00"),
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableSlots(tt.day, tt.busy, tt.now)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}
