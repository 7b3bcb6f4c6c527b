package booking

import "time"

// Interval is a half-open busy window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Overlaps(start, end time.Time) bool {
	return start.Before(iv.End) && end.After(iv.Start)
}

// WeeklySlots is the recurring template of session start times,
// keyed by weekday (0=Sunday .. 6=Saturday), in business time.
// Output ordering follows this declared order.
var WeeklySlots = map[time.Weekday][]string{
	time.Monday:    {"10:00", "11:00", "14:00", "16:00", "19:00"},
	time.Tuesday:   {"10:00", "11:00", "14:00", "16:00", "19:00"},
	time.Wednesday: {"10:00", "11:00", "14:00", "16:00", "19:00"},
	time.Thursday:  {"10:00", "11:00", "14:00", "16:00", "19:00"},
	time.Friday:    {"10:00", "11:00", "14:00", "16:00"},
	time.Saturday:  {"09:00", "10:00", "11:00"},
}

// AvailableSlots filters the day's template against busy intervals and the
// lead time. day must be business-time midnight of the requested date.
// Purely advisory: the create protocol re-checks the calendar before booking.
func AvailableSlots(day time.Time, busy []Interval, now time.Time) []string {
	template := WeeklySlots[day.Weekday()]

	available := []string{}
	for _, hm := range template {
		t, err := time.ParseInLocation("15:04", hm, day.Location())
		if err != nil {
			continue
		}

		start := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
		end := start.Add(SessionDuration)

		if start.Sub(now) < LeadTime {
			continue
		}

		conflict := false
		for _, iv := range busy {
			if iv.Overlaps(start, end) {
				conflict = true
				break
			}
		}

		if !conflict {
			available = append(available, hm)
		}
	}

	return available
}
