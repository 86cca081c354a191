package snowflake

import "time"

const iso8601Layout = "2006-01-02 15:04:05"

// FormatISO8601 renders t as "YYYY-MM-DD HH:MM:SS" in loc.
// A nil loc means time.Local.
func FormatISO8601(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(iso8601Layout)
}
