package clock

import "time"

// DefaultOffset is the fixed local offset applied to a user-supplied
// run_at timestamp that carries no explicit timezone designator.
//
// This is a deliberate product choice for the primary deployment locale,
// not a fallback for malformed input. It is exposed as a single constant
// so a fork targeting a different locale only has to change this line.
const DefaultOffset = "+05:30"

const iso8601 = "2006-01-02T15:04:05.999999999Z07:00"

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// FormatISO8601 encodes t as an ISO-8601 string in UTC.
func FormatISO8601(t time.Time) string {
	return t.UTC().Format(iso8601)
}

// ParseISO8601 parses an ISO-8601 string, returning the time in UTC.
func ParseISO8601(s string) (time.Time, error) {
	t, err := time.Parse(iso8601, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// defaultLocation is the fixed offset used by ParseRunAt when raw has no
// timezone designator. It is computed once since its offset never
// changes across calls.
func defaultLocation() *time.Location {
	d, err := time.ParseDuration("5h30m")
	if err != nil {
		panic(err)
	}
	return time.FixedZone(DefaultOffset, int(d.Seconds()))
}

var offsetLocation = defaultLocation()

// ParseRunAt parses a caller-supplied run_at timestamp and returns it in
// UTC.
//
// If raw carries an explicit timezone designator (a trailing "Z" or a
// numeric "+hh:mm"/"-hh:mm" offset), it is parsed and converted to UTC
// as given. Otherwise raw is interpreted as a naked local timestamp in
// DefaultOffset and converted to UTC — see DefaultOffset for rationale.
func ParseRunAt(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, raw, offsetLocation)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
