package attendance

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLateThreshold = "09:15"
	DefaultHalfDayHours  = 4.0
)

// Policy fixes the rules used to classify a working day.
type Policy struct {
	// LateAfter is minutes since local midnight; a check-in strictly after it is late.
	LateAfter    int
	HalfDayHours float64
	Location     *time.Location
}

func DefaultPolicy() Policy {
	return Policy{LateAfter: 9*60 + 15, HalfDayHours: DefaultHalfDayHours, Location: time.UTC}
}

func NewPolicy(threshold string, halfDayHours float64, zone string) (Policy, error) {
	lateAfter, err := ParseThreshold(threshold)
	if err != nil {
		return Policy{}, err
	}
	if halfDayHours <= 0 || halfDayHours > 24 {
		return Policy{}, fmt.Errorf("half day hours out of range: %v", halfDayHours)
	}
	loc := time.UTC
	if zone != "" {
		loc, err = time.LoadLocation(zone)
		if err != nil {
			return Policy{}, fmt.Errorf("load time zone %q: %w", zone, err)
		}
	}
	return Policy{LateAfter: lateAfter, HalfDayHours: halfDayHours, Location: loc}, nil
}

// ParseThreshold converts "HH:MM" into minutes since midnight.
func ParseThreshold(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidThreshold, value)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidThreshold, value)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidThreshold, value)
	}
	return hh*60 + mm, nil
}

// DeriveCheckInStatus compares the minutes-of-day of t, in t's own location,
// against lateAfter. Seconds are ignored.
func DeriveCheckInStatus(t time.Time, lateAfter int) Status {
	if t.Hour()*60+t.Minute() > lateAfter {
		return StatusLate
	}
	return StatusPresent
}

const msPerHundredthHour = 36000

// ComputeHours returns the elapsed hours rounded half-up to two decimals.
// Rounding happens on whole milliseconds so half-hundredth boundaries go up.
func ComputeHours(checkIn, checkOut time.Time) float64 {
	ms := checkOut.Sub(checkIn).Milliseconds()
	if ms <= 0 {
		return 0
	}
	hundredths := (ms + msPerHundredthHour/2) / msPerHundredthHour
	return float64(hundredths) / 100
}

// ApplyHalfDayRule forces half-day below the minimum; it never promotes.
func ApplyHalfDayRule(status Status, hours, minimum float64) Status {
	if hours < minimum {
		return StatusHalfDay
	}
	return status
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p Policy) CheckInStatus(t time.Time) Status {
	return DeriveCheckInStatus(t.In(p.location()), p.LateAfter)
}

// CloseStatus is the status a record takes when closed after hours of work.
func (p Policy) CloseStatus(status Status, hours float64) Status {
	return ApplyHalfDayRule(status, hours, p.HalfDayHours)
}

// WorkDate returns the calendar day of t in the policy zone as a UTC midnight.
func (p Policy) WorkDate(t time.Time) time.Time {
	y, m, d := t.In(p.location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (p Policy) FormatTime(t time.Time) string {
	return t.In(p.location()).Format(time.RFC3339)
}

// sumHours adds two-decimal hour values in whole hundredths.
func sumHours(values []float64) float64 {
	var hundredths int64
	for _, v := range values {
		hundredths += int64(math.Round(v * 100))
	}
	return float64(hundredths) / 100
}
