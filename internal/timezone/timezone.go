package timezone

import "time"

// All slot templates and booking windows are evaluated in Japan time.
const BusinessTimezone = "Asia/Tokyo"

func Location() *time.Location {
	loc, err := time.LoadLocation(BusinessTimezone)
	if err != nil {
		// Asia/Tokyo has no DST; a fixed offset is an exact fallback.
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location())
}

// ParseDateTime interprets "YYYY-MM-DD" + "HH:MM" as a business-time instant.
func ParseDateTime(date, hm string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+hm, Location())
}

// ParseDate interprets "YYYY-MM-DD" as business-time midnight.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, Location())
}
