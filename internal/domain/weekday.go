package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is the day-of-week key of a stylist schedule.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var weekdays = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf returns the schedule weekday of date's calendar day.
func WeekdayOf(date time.Time) Weekday {
	return weekdays[date.Weekday()]
}

// ParseWeekday accepts full English day names in any case.
func ParseWeekday(s string) (Weekday, error) {
	w := Weekday(strings.ToLower(strings.TrimSpace(s)))
	if !w.IsValid() {
		return "", fmt.Errorf("unknown weekday %q", s)
	}
	return w, nil
}

func (w Weekday) IsValid() bool {
	for _, known := range weekdays {
		if known == w {
			return true
		}
	}
	return false
}

func (w Weekday) String() string {
	return string(w)
}
