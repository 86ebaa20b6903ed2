package sqlite

import (
	"fmt"
	"time"
)

// storedTimeFormat sorts lexically and matches CURRENT_TIMESTAMP up to the fraction.
const storedTimeFormat = "2006-01-02 15:04:05.000"

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02",
}

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeFormat)
}

// timestamp scans DATETIME columns whether the driver hands back a parsed
// time.Time, text or a unix epoch.
type timestamp struct {
	Time  time.Time
	Valid bool
}

func (ts *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*ts = timestamp{}
		return nil
	case time.Time:
		*ts = timestamp{Time: v.UTC(), Valid: true}
		return nil
	case int64:
		*ts = timestamp{Time: time.Unix(v, 0).UTC(), Valid: true}
		return nil
	case []byte:
		return ts.parse(string(v))
	case string:
		return ts.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (ts *timestamp) parse(s string) error {
	if s == "" {
		*ts = timestamp{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*ts = timestamp{Time: t.UTC(), Valid: true}
			return nil
		}
	}

	return fmt.Errorf("unrecognized timestamp %q", s)
}
