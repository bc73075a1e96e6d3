package domain

import "time"

// Zone is the fixed UTC+7 zone used for the daily quota boundary and for
// rendering timestamps, independent of where the server runs.
var Zone = time.FixedZone("UTC+7", 7*60*60)

// TimestampLayout renders upload timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// DayWindow returns [start, end) of the UTC+7 calendar day containing t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(Zone)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Zone)
	return start, start.AddDate(0, 0, 1)
}

// FormatTimestamp renders t in the fixed zone.
func FormatTimestamp(t time.Time) string {
	return t.In(Zone).Format(TimestampLayout)
}
