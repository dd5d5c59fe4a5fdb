// Package form binds the raw text of the birth date entries to the validator
// and the calculator. It holds no widgets so any surface can render it.
package form

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/tartampluch/go-age-calculator/internal/config"
	"github.com/tartampluch/go-age-calculator/internal/engine"
)

// Input is the raw text of the three entries at submission time.
type Input struct {
	Day   string
	Month string
	Year  string
}

// BirthDate parses each entry leniently. Unparseable text becomes 0 (absent).
func (in Input) BirthDate() engine.BirthDate {
	return engine.BirthDate{
		Day:   ParseField(in.Day),
		Month: ParseField(in.Month),
		Year:  ParseField(in.Year),
	}
}

// ParseField reads an optional sign and the leading digits of s, ignoring
// surrounding spaces and anything after the digits. Text without leading
// digits parses to 0, which the validator treats as a blank field. Values
// too large for an int saturate so they still fail the range check.
func ParseField(s string) int {
	s = strings.TrimSpace(s)

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		if sign == "-" {
			return math.MinInt
		}
		return math.MaxInt
	}
	return n
}

// State is everything the view needs to render the form.
// It is a value: Submit returns a new state instead of mutating one.
type State struct {
	Input     Input
	Errors    engine.ValidationResult
	Submitted bool
	Result    engine.AgeResult
}

// NewState returns the state of a form nobody has submitted yet.
func NewState() State {
	return State{Errors: engine.ValidationResult{Valid: true}}
}

// Submit validates in and, when valid, computes the age with calc.
// A rejected submission updates the errors but keeps the previous result.
// A birth date after the clock is rejected on the year field. Any other
// calculator failure is returned with state unchanged.
func Submit(state State, in Input, calc *engine.Calculator) (State, error) {
	next := state
	next.Input = in

	birth := in.BirthDate()
	next.Errors = engine.Validate(birth)

	log := slog.With(config.LogKeyComponent, config.CompUI)

	if !next.Errors.Valid {
		log.Debug(config.MsgValidationFail,
			config.LogKeyDay, birth.Day,
			config.LogKeyMonth, birth.Month,
			config.LogKeyYear, birth.Year)
		return next, nil
	}

	age, err := calc.Calculate(birth)
	if errors.Is(err, engine.ErrBirthInFuture) {
		next.Errors.Valid = false
		next.Errors.Year = engine.ViolationYearInPast
		return next, nil
	}
	if err != nil {
		log.Error(config.ErrCalculation, config.LogKeyError, err)
		return state, fmt.Errorf("%s: %w", config.ErrCalculation, err)
	}

	next.Submitted = true
	next.Result = age
	log.Info(config.MsgFormSubmitted,
		slog.Group(config.LogKeyResult,
			slog.Int(config.LogKeyYears, age.Years),
			slog.Int(config.LogKeyMonths, age.Months),
			slog.Int(config.LogKeyDays, age.Days),
		))
	return next, nil
}

// Display returns the three counters as text, or placeholders before the
// first successful submission.
func (s State) Display() (years, months, days string) {
	if !s.Submitted {
		return config.ResultPlaceholder, config.ResultPlaceholder, config.ResultPlaceholder
	}
	return strconv.Itoa(s.Result.Years), strconv.Itoa(s.Result.Months), strconv.Itoa(s.Result.Days)
}
