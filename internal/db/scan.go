package db

import (
	"fmt"
	"time"
)

// timeValue aceita tanto time.Time quanto o texto que o sqlite devolve quando
// a coluna perde o tipo declarado (RETURNING, agregações, subqueries).
type timeValue time.Time

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

func (t *timeValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = timeValue(time.Time{})
		return nil
	case time.Time:
		*t = timeValue(v)
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	case int64:
		*t = timeValue(time.Unix(v, 0).UTC())
		return nil
	default:
		return fmt.Errorf("db: cannot scan %T into time", src)
	}
}

func (t *timeValue) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*t = timeValue(parsed)
			return nil
		}
	}
	return fmt.Errorf("db: invalid time %q", s)
}

func scanTime(dst *time.Time) *timeValue {
	return (*timeValue)(dst)
}
