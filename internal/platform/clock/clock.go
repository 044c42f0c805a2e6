package clock

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Locale renders instants as wall-clock strings of a single zone.
type Locale struct {
	Zone *time.Location
}

func NewLocale(zone string) (Locale, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Locale{}, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return Locale{Zone: loc}, nil
}

func (l Locale) In(t time.Time) time.Time {
	if l.Zone == nil {
		return t
	}
	return t.In(l.Zone)
}

func (l Locale) Date(t time.Time) string {
	return l.In(t).Format(DateLayout)
}

func (l Locale) Time(t time.Time) string {
	return l.In(t).Format(TimeLayout)
}

func (l Locale) DateTime(t time.Time) string {
	return l.In(t).Format(DateTimeLayout)
}

// FormatDuration renders end-start as "H soat M daqiqa" with floored parts.
func FormatDuration(start, end time.Time) string {
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%d soat %d daqiqa", hours, minutes)
}

// ValidDate reports whether s is a yyyy-MM-dd calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
