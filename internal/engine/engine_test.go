package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-age-calculator/internal/config"
	"github.com/tartampluch/go-age-calculator/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// SpyClock records how often the calculator reads the time, using testify/mock.
type SpyClock struct {
	mock.Mock
}

func (m *SpyClock) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

// -----------------------------------------------------------------------------
// Validator
// -----------------------------------------------------------------------------

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name      string
		input     engine.BirthDate
		wantDay   engine.Violation
		wantMonth engine.Violation
		wantYear  engine.Violation
	}{
		{"All valid", engine.BirthDate{Day: 15, Month: 6, Year: 1990}, "", "", ""},
		{"All absent", engine.BirthDate{}, engine.ViolationRequired, engine.ViolationRequired, engine.ViolationRequired},
		{"Day zero is required, not out of range", engine.BirthDate{Day: 0, Month: 1, Year: 2000}, engine.ViolationRequired, "", ""},
		{"Day 32", engine.BirthDate{Day: 32, Month: 1, Year: 2000}, engine.ViolationInvalidDay, "", ""},
		{"Negative day", engine.BirthDate{Day: -1, Month: 1, Year: 2000}, engine.ViolationInvalidDay, "", ""},
		{"Month 13", engine.BirthDate{Day: 1, Month: 13, Year: 2000}, "", engine.ViolationInvalidMonth, ""},
		{"Year 1924", engine.BirthDate{Day: 1, Month: 1, Year: 1924}, "", "", engine.ViolationYearInPast},
		{"Year 2024", engine.BirthDate{Day: 1, Month: 1, Year: 2024}, "", "", engine.ViolationYearInPast},
		{"February 30 has no cross-field check", engine.BirthDate{Day: 30, Month: 2, Year: 2023}, "", "", ""},
		{"Mixed failures", engine.BirthDate{Day: 40, Month: 0, Year: 3000}, engine.ViolationInvalidDay, engine.ViolationRequired, engine.ViolationYearInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Validate(tt.input)

			assert.Equal(t, tt.wantDay, res.Day)
			assert.Equal(t, tt.wantMonth, res.Month)
			assert.Equal(t, tt.wantYear, res.Year)

			wantValid := tt.wantDay == "" && tt.wantMonth == "" && tt.wantYear == ""
			assert.Equal(t, wantValid, res.Valid)
		})
	}
}

// TestValidate_WholeRange walks every in-range triple.
func TestValidate_WholeRange(t *testing.T) {
	v := engine.NewValidator()
	for y := config.MinYear; y <= config.MaxYear; y++ {
		for m := config.MinMonth; m <= config.MaxMonth; m++ {
			for d := config.MinDay; d <= config.MaxDay; d++ {
				res := v.Validate(engine.BirthDate{Day: d, Month: m, Year: y})
				if !res.Valid {
					t.Fatalf("%04d-%02d-%02d rejected: %+v", y, m, d, res)
				}
			}
		}
	}
}

// TestValidate_Boundaries checks the struct tags agree with the config bounds.
func TestValidate_Boundaries(t *testing.T) {
	ok := engine.BirthDate{Day: 1, Month: 1, Year: 2000}

	below := ok
	below.Year = config.MinYear - 1
	above := ok
	above.Year = config.MaxYear + 1
	assert.Equal(t, engine.ViolationYearInPast, engine.Validate(below).Year)
	assert.Equal(t, engine.ViolationYearInPast, engine.Validate(above).Year)

	above = ok
	above.Day = config.MaxDay + 1
	assert.Equal(t, engine.ViolationInvalidDay, engine.Validate(above).Day)

	above = ok
	above.Month = config.MaxMonth + 1
	assert.Equal(t, engine.ViolationInvalidMonth, engine.Validate(above).Month)
}

func TestValidationResult_Fields(t *testing.T) {
	res := engine.Validate(engine.BirthDate{Day: 32, Month: 5})

	assert.Equal(t, map[string]string{
		config.FieldDay:  config.MsgInvalidDay,
		config.FieldYear: config.MsgFieldRequired,
	}, res.Fields())

	assert.Empty(t, engine.Validate(engine.BirthDate{Day: 1, Month: 1, Year: 2000}).Fields())
}

// -----------------------------------------------------------------------------
// Calculator
// -----------------------------------------------------------------------------

func TestCalculate_Calendar(t *testing.T) {
	tests := []struct {
		name  string
		input engine.BirthDate
		now   time.Time
		want  engine.AgeResult
	}{
		{
			name:  "New year 2024",
			input: engine.BirthDate{Day: 1, Month: 1, Year: 2000},
			now:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want:  engine.AgeResult{Years: 24, Months: 0, Days: 0},
		},
		{
			name:  "Mid-year birth",
			input: engine.BirthDate{Day: 15, Month: 6, Year: 1990},
			now:   time.Date(2023, 1, 1, 9, 30, 0, 0, time.UTC),
			want:  engine.AgeResult{Years: 32, Months: 6, Days: 17},
		},
		{
			name:  "February 30 normalizes to March 2",
			input: engine.BirthDate{Day: 30, Month: 2, Year: 2023},
			now:   time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC),
			want:  engine.AgeResult{Years: 0, Months: 0, Days: 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := engine.NewCalculator(MockClock{CurrentTime: tt.now}, engine.AlgorithmCalendar)

			got, err := calc.Calculate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculate_Epoch(t *testing.T) {
	calc := engine.NewCalculator(
		MockClock{CurrentTime: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		engine.AlgorithmEpoch,
	)

	got, err := calc.Calculate(engine.BirthDate{Day: 15, Month: 6, Year: 1990})
	require.NoError(t, err)
	assert.Equal(t, engine.AgeResult{Years: 32, Months: 6, Days: 20}, got)
}

// TestCalculate_LocalMidnight checks the birth date is taken at midnight in the clock's zone.
func TestCalculate_LocalMidnight(t *testing.T) {
	tokyo := time.FixedZone("UTC+9", 9*60*60)
	// 2024-01-01 05:00 in Tokyo is still 2023-12-31 in UTC.
	now := time.Date(2024, 1, 1, 5, 0, 0, 0, tokyo)

	calc := engine.NewCalculator(MockClock{CurrentTime: now}, engine.AlgorithmCalendar)
	got, err := calc.Calculate(engine.BirthDate{Day: 1, Month: 1, Year: 2000})

	require.NoError(t, err)
	assert.Equal(t, engine.AgeResult{Years: 24}, got)
}

func TestCalculate_Idempotent(t *testing.T) {
	clock := engine.FixedClock{Time: time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)}
	input := engine.BirthDate{Day: 29, Month: 2, Year: 1996}

	for _, algo := range []engine.Algorithm{engine.AlgorithmCalendar, engine.AlgorithmEpoch} {
		calc := engine.NewCalculator(clock, algo)
		first, err := calc.Calculate(input)
		require.NoError(t, err)

		second, err := calc.Calculate(input)
		require.NoError(t, err)
		assert.Equal(t, first, second, "algorithm %s", algo)
	}
}

func TestCalculate_Errors(t *testing.T) {
	now := MockClock{CurrentTime: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)}

	t.Run("Invalid input", func(t *testing.T) {
		calc := engine.NewCalculator(now, engine.AlgorithmCalendar)
		_, err := calc.Calculate(engine.BirthDate{Day: 32, Month: 1, Year: 2000})
		assert.ErrorIs(t, err, engine.ErrInvalidBirthDate)
	})

	t.Run("Birth after now", func(t *testing.T) {
		calc := engine.NewCalculator(now, engine.AlgorithmCalendar)
		_, err := calc.Calculate(engine.BirthDate{Day: 31, Month: 12, Year: 2023})
		assert.ErrorIs(t, err, engine.ErrBirthInFuture)
	})

	t.Run("Unknown algorithm", func(t *testing.T) {
		calc := engine.NewCalculator(now, engine.Algorithm("lunar"))
		_, err := calc.Calculate(engine.BirthDate{Day: 1, Month: 1, Year: 2000})
		assert.ErrorIs(t, err, engine.ErrUnknownAlgorithm)
	})

	t.Run("Missing clock", func(t *testing.T) {
		calc := &engine.Calculator{}
		_, err := calc.Calculate(engine.BirthDate{Day: 1, Month: 1, Year: 2000})
		assert.Error(t, err)
	})
}

func TestCalculate_ReadsClockOnce(t *testing.T) {
	clock := new(SpyClock)
	clock.On("Now").Return(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	calc := engine.NewCalculator(clock, engine.AlgorithmCalendar)

	// Rejected input never reaches the clock.
	_, err := calc.Calculate(engine.BirthDate{Day: 0, Month: 1, Year: 2000})
	require.ErrorIs(t, err, engine.ErrInvalidBirthDate)
	clock.AssertNotCalled(t, "Now")

	_, err = calc.Calculate(engine.BirthDate{Day: 1, Month: 1, Year: 2000})
	require.NoError(t, err)
	clock.AssertNumberOfCalls(t, "Now", 1)
	clock.AssertExpectations(t)
}

func TestCalculate_ZeroAlgorithmIsCalendar(t *testing.T) {
	calc := &engine.Calculator{Clock: MockClock{CurrentTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}}

	got, err := calc.Calculate(engine.BirthDate{Day: 1, Month: 1, Year: 2000})
	require.NoError(t, err)
	assert.Equal(t, engine.AgeResult{Years: 24}, got)
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    engine.Algorithm
		wantErr bool
	}{
		{"", engine.AlgorithmCalendar, false},
		{"calendar", engine.AlgorithmCalendar, false},
		{" Epoch ", engine.AlgorithmEpoch, false},
		{"julian", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := engine.ParseAlgorithm(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, engine.ErrUnknownAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
