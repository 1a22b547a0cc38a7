package render

import "time"

// DisplayLayout is how timestamps are shown to the user.
const DisplayLayout = "1/2/2006, 3:04:05 PM"

// Salesforce sends "2024-03-01T10:00:00.000+0000"; other backends send RFC 3339.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatTimestamp formats a backend timestamp in local time. Empty input
// yields "" and unparsable input is returned unchanged.
func FormatTimestamp(s string) string {
	return FormatTimestampIn(s, time.Local)
}

// FormatTimestampIn is FormatTimestamp for an explicit location.
func FormatTimestampIn(s string, loc *time.Location) string {
	if s == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc).Format(DisplayLayout)
		}
	}
	return s
}
