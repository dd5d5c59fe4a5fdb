package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-age-calculator/internal/config"
)

// Sentinel errors returned by the Calculator.
var (
	ErrInvalidBirthDate = errors.New(config.ErrInvalidBirthDate)
	ErrBirthInFuture    = errors.New(config.ErrBirthInFuture)
	ErrUnknownAlgorithm = errors.New(config.ErrUnknownAlgorithm)
)

// AgeResult is the elapsed time between a birth date and now.
type AgeResult struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// Algorithm selects how the elapsed time is derived.
type Algorithm string

const (
	// AlgorithmCalendar borrows months and days along the calendar.
	AlgorithmCalendar Algorithm = config.AlgorithmCalendar

	// AlgorithmEpoch reinterprets the millisecond difference as an instant
	// after 1970-01-01 and reads its components. Months are 0-based and days
	// are a day-of-month, so a birthday exactly N years ago reads N/0/1.
	AlgorithmEpoch Algorithm = config.AlgorithmEpoch
)

// ParseAlgorithm maps a flag value to an Algorithm. Empty selects the calendar one.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", config.AlgorithmCalendar:
		return AlgorithmCalendar, nil
	case config.AlgorithmEpoch:
		return AlgorithmEpoch, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Calculator computes ages relative to its Clock.
type Calculator struct {
	Clock     Clock     // Interface for time mocking.
	Algorithm Algorithm // Zero value means AlgorithmCalendar.
}

// NewCalculator creates a Calculator reading "now" from clock.
func NewCalculator(clock Clock, algo Algorithm) *Calculator {
	return &Calculator{Clock: clock, Algorithm: algo}
}

// Calculate validates b and returns the elapsed years, months and days.
func (c *Calculator) Calculate(b BirthDate) (AgeResult, error) {
	if res := Validate(b); !res.Valid {
		return AgeResult{}, ErrInvalidBirthDate
	}
	if c.Clock == nil {
		return AgeResult{}, errors.New(config.ErrClockMissing)
	}

	now := c.Clock.Now()
	birth := b.Time(now.Location())

	var (
		age AgeResult
		err error
	)
	switch c.Algorithm {
	case "", AlgorithmCalendar:
		age, err = calendarDifference(now, birth)
	case AlgorithmEpoch:
		age = epochDifference(now, birth)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAlgorithm, c.Algorithm)
	}
	if err != nil {
		return AgeResult{}, err
	}

	slog.Debug(config.MsgAgeCalculated,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyAlgorithm, string(c.algorithm()),
		slog.Group(config.LogKeyResult,
			slog.Int(config.LogKeyYears, age.Years),
			slog.Int(config.LogKeyMonths, age.Months),
			slog.Int(config.LogKeyDays, age.Days),
		),
	)
	return age, nil
}

func (c *Calculator) algorithm() Algorithm {
	if c.Algorithm == "" {
		return AlgorithmCalendar
	}
	return c.Algorithm
}

// Time returns local midnight of the birth date in loc.
// Overflowing days roll into the next month (30 February becomes 2 or 1 March).
func (b BirthDate) Time(loc *time.Location) time.Time {
	return time.Date(b.Year, time.Month(b.Month), b.Day, 0, 0, 0, 0, loc)
}

// epochDifference is the epoch-difference technique.
func epochDifference(now, birth time.Time) AgeResult {
	diff := now.UnixMilli() - birth.UnixMilli()
	age := time.UnixMilli(diff).UTC()

	years := age.Year() - config.EpochYear
	if years < 0 {
		years = -years
	}
	return AgeResult{
		Years:  years,
		Months: int(age.Month()) - 1,
		Days:   age.Day(),
	}
}

// calendarDifference counts whole months from birth to today, then the days
// left after the last monthly anniversary. Anniversaries falling on a day the
// month lacks are clamped to its last day.
func calendarDifference(now, birth time.Time) (AgeResult, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if birth.After(today) {
		return AgeResult{}, ErrBirthInFuture
	}

	months := (today.Year()-birth.Year())*12 + int(today.Month()) - int(birth.Month())
	anchor := addMonthsClamped(birth, months)
	if anchor.After(today) {
		months--
		anchor = addMonthsClamped(birth, months)
	}

	return AgeResult{
		Years:  months / 12,
		Months: months % 12,
		Days:   daysBetween(anchor, today),
	}, nil
}

// addMonthsClamped moves t by n calendar months without overflowing into the following month.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// daysBetween counts calendar days, ignoring DST shifts in the dates' location.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}
