package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const timeLayout = "15:04"

// ErrInvalidTimeFormat is returned when a value is not a 24-hour HH:MM time.
var ErrInvalidTimeFormat = errors.New("types: time must be in HH:MM format")

// TimeString is a wall-clock time of day in 24-hour "HH:MM" form.
type TimeString string

// NewTimeString builds a TimeString from the hour and minute of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// IsZero reports whether the time is unset.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks the strict HH:MM form: two-digit hour 00-23, two-digit minute 00-59.
func (t TimeString) Validate() error {
	s := string(t)
	if len(s) != 5 || s[2] != ':' {
		return fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	h, errH := strconv.Atoi(s[:2])
	m, errM := strconv.Atoi(s[3:])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if s[0] == '+' || s[0] == '-' || s[3] == '+' || s[3] == '-' {
		return fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return nil
}

// Minutes returns the number of minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s := string(t)
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	return h*60 + m, nil
}

// Clock returns the hour and minute components.
func (t TimeString) Clock() (hour, minute int, err error) {
	total, err := t.Minutes()
	if err != nil {
		return 0, 0, err
	}
	return total / 60, total % 60, nil
}

// IsBefore reports whether t is strictly earlier than other. Invalid values compare as false.
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a < b
}

// On combines t with the calendar day of date in loc.
func (t TimeString) On(date time.Time, loc *time.Location) (time.Time, error) {
	h, m, err := t.Clock()
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, 0, 0, loc), nil
}

// Format12h renders the time on a 12-hour clock, e.g. "2:30 PM".
func (t TimeString) Format12h() string {
	h, m, err := t.Clock()
	if err != nil {
		return string(t)
	}
	return time.Date(2000, 1, 1, h, m, 0, 0, time.UTC).Format("3:04 PM")
}

func (t TimeString) String() string {
	return string(t)
}

// Value implements driver.Valuer.
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan implements sql.Scanner. Postgres TIME columns arrive as "HH:MM:SS" or time.Time.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("types: cannot scan %T into TimeString", src)
	}
}

func (t *TimeString) scanString(s string) error {
	if len(s) >= 5 {
		s = s[:5]
	}
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return err
	}
	*t = ts
	return nil
}
