package storage

import "time"

// timeLayout is RFC 3339 with a fixed nine-digit fraction. The catalog
// stores timestamps as TEXT and orders on them lexicographically, so the
// fraction must never be stripped: with variable-width fractions "…:00.5Z"
// sorts after "…:00.51Z".
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders a timestamp for catalog storage. The output is
// fixed-width so lexicographic order matches chronological order.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime reads a catalog timestamp. Values written before the layout was
// fixed-width carry stripped fractions; both forms parse.
func ParseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
