package locale_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-age-calculator/internal/config"
	"github.com/tartampluch/go-age-calculator/internal/engine"
	"github.com/tartampluch/go-age-calculator/internal/locale"
)

var translationKeys = []string{
	config.TKeyWinTitle,
	config.TKeyLblDay,
	config.TKeyLblMonth,
	config.TKeyLblYear,
	config.TKeyPhDay,
	config.TKeyPhMonth,
	config.TKeyPhYear,
	config.TKeyBtnSubmit,
	config.TKeyUnitYears,
	config.TKeyUnitMonths,
	config.TKeyUnitDays,
	config.TKeyErrRequired,
	config.TKeyErrDay,
	config.TKeyErrMonth,
	config.TKeyErrYear,
	config.TKeyLblFooter,
}

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in every locale file, and flags orphan keys.
func TestI18nIntegrity(t *testing.T) {
	definedKeys := make(map[string]bool, len(translationKeys))
	for _, k := range translationKeys {
		definedKeys[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join("locales", "active."+lang+".json"))
			require.NoError(t, err, "Must load locale file for %s", lang)

			var jsonMap map[string]interface{}
			require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

			for key := range definedKeys {
				_, exists := jsonMap[key]
				assert.Truef(t, exists, "Key '%s' defined in config.go is missing in active.%s.json", key, lang)
			}

			for jsonKey := range jsonMap {
				if strings.HasPrefix(jsonKey, "_") {
					continue
				}
				if !definedKeys[jsonKey] {
					t.Logf("Warning: Key '%s' exists in JSON but is not checked in the test suite (might be unused)", jsonKey)
				}
			}
		})
	}
}

func TestTranslator_DetectsLanguages(t *testing.T) {
	tr := locale.New()
	assert.ElementsMatch(t, config.SupportedLanguages, tr.Languages)
}

func TestLocalizer_Switching(t *testing.T) {
	tr := locale.New()

	assert.Equal(t, "Calculate", tr.Localizer("en").Msg(config.TKeyBtnSubmit))
	assert.Equal(t, "Calculer", tr.Localizer("fr").Msg(config.TKeyBtnSubmit))

	// Accept-Language header values are understood.
	assert.Equal(t, "Calculer", tr.Localizer("fr-CA,fr;q=0.9,en;q=0.5").Msg(config.TKeyBtnSubmit))

	// Unsupported languages use English.
	assert.Equal(t, "Calculate", tr.Localizer("de").Msg(config.TKeyBtnSubmit))
}

func TestLocalizer_MissingKey(t *testing.T) {
	loc := locale.New().Localizer("en")
	assert.Equal(t, "no_such_key", loc.Msg("no_such_key"))

	var nilLoc *locale.Localizer
	assert.Equal(t, config.TKeyLblDay, nilLoc.Msg(config.TKeyLblDay))
}

func TestLocalizer_Violation(t *testing.T) {
	tr := locale.New()
	en := tr.Localizer("en")
	fr := tr.Localizer("fr")

	// English translations must match the validator messages exactly.
	for _, v := range []engine.Violation{
		engine.ViolationRequired,
		engine.ViolationInvalidDay,
		engine.ViolationInvalidMonth,
		engine.ViolationYearInPast,
	} {
		assert.Equal(t, v.String(), en.Violation(v))
		assert.NotEqual(t, v.String(), fr.Violation(v), "French should translate %q", v)
	}

	assert.Equal(t, "", en.Violation(engine.ViolationNone))
	assert.Equal(t, "odd", en.Violation(engine.Violation("odd")))
}

func TestLocalizer_Lang(t *testing.T) {
	tr := locale.New()

	tests := []struct {
		name  string
		prefs []string
		want  string
	}{
		{"English", []string{"en"}, "en"},
		{"French", []string{"fr"}, "fr"},
		{"Regional Accept-Language", []string{"fr-CA,fr;q=0.9,en;q=0.5"}, "fr"},
		{"Unsupported falls back", []string{"de"}, "en"},
		{"First supported preference wins", []string{"de", "fr"}, "fr"},
		{"No preference", nil, config.DefaultLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Localizer(tt.prefs...).Lang())
		})
	}

	var nilLoc *locale.Localizer
	assert.Equal(t, config.DefaultLanguage, nilLoc.Lang())
}
