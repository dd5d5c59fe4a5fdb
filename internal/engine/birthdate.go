package engine

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tartampluch/go-age-calculator/internal/config"
)

// BirthDate is the (day, month, year) triple entered by the user.
// A zero field means the field was left blank.
//
// The bounds in the validate tags mirror config.MinDay..config.MaxYear.
type BirthDate struct {
	Day   int `json:"day" validate:"required,min=1,max=31"`
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=1925,max=2023"`
}

// Violation is the message attached to a field that failed validation.
// The empty Violation means the field is valid.
type Violation string

const (
	ViolationNone         Violation = ""
	ViolationRequired     Violation = config.MsgFieldRequired
	ViolationInvalidDay   Violation = config.MsgInvalidDay
	ViolationInvalidMonth Violation = config.MsgInvalidMonth
	ViolationYearInPast   Violation = config.MsgYearInPast
)

// String returns the human-readable message.
func (v Violation) String() string {
	return string(v)
}

// ValidationResult holds one violation per field and the overall verdict.
type ValidationResult struct {
	Day   Violation
	Month Violation
	Year  Violation
	Valid bool
}

// Fields returns the violations keyed by field name, omitting valid fields.
func (r ValidationResult) Fields() map[string]string {
	out := make(map[string]string, 3)
	if r.Day != ViolationNone {
		out[config.FieldDay] = r.Day.String()
	}
	if r.Month != ViolationNone {
		out[config.FieldMonth] = r.Month.String()
	}
	if r.Year != ViolationNone {
		out[config.FieldYear] = r.Year.String()
	}
	return out
}

// Validator checks each BirthDate field against its inclusive range.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator reporting errors under the JSON field names.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate checks every field independently; there are no cross-field rules,
// so 30 February passes.
func (v *Validator) Validate(b BirthDate) ValidationResult {
	res := ValidationResult{Valid: true}

	err := v.validate.Struct(b)
	if err == nil {
		return res
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable with a non-struct argument.
		slog.Error(config.ErrInvalidBirthDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyError, err)
		res.Valid = false
		return res
	}

	for _, fe := range fieldErrs {
		violation := outOfRange(fe.Field())
		if fe.Tag() == "required" {
			violation = ViolationRequired
		}
		switch fe.Field() {
		case config.FieldDay:
			res.Day = violation
		case config.FieldMonth:
			res.Month = violation
		case config.FieldYear:
			res.Year = violation
		}
	}

	res.Valid = res.Day == ViolationNone && res.Month == ViolationNone && res.Year == ViolationNone
	return res
}

// outOfRange returns the field-specific range message.
func outOfRange(field string) Violation {
	switch field {
	case config.FieldDay:
		return ViolationInvalidDay
	case config.FieldMonth:
		return ViolationInvalidMonth
	default:
		return ViolationYearInPast
	}
}

var defaultValidator = NewValidator()

// Validate checks b with the package-level Validator.
func Validate(b BirthDate) ValidationResult {
	return defaultValidator.Validate(b)
}
