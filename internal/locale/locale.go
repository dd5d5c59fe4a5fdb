// Package locale loads the embedded translation files and translates the
// labels and validation messages shown by the desktop and web surfaces.
package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-age-calculator/internal/config"
	"github.com/tartampluch/go-age-calculator/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator wraps the message bundle and the languages detected in it.
type Translator struct {
	bundle    *i18n.Bundle
	Languages []string
}

// New builds a Translator from the embedded locale files.
// Files that fail to load are logged and skipped; English stays the fallback.
func New() *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	tr := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return tr
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		tr.Languages = append(tr.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	return tr
}

// Localizer returns a localizer for the given preferences, in priority order.
// Each entry may be a tag ("fr") or an Accept-Language header value.
func (t *Translator) Localizer(langs ...string) *Localizer {
	if len(langs) == 0 {
		langs = []string{config.DefaultLanguage}
	}
	return &Localizer{loc: i18n.NewLocalizer(t.bundle, langs...)}
}

// Localizer translates message keys for one language preference.
type Localizer struct {
	loc *i18n.Localizer
}

// Msg translates key, returning the key itself when no translation exists.
func (l *Localizer) Msg(key string) string {
	if l == nil || l.loc == nil {
		return key
	}
	msg, err := l.loc.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// Lang returns the base language the localizer resolved against the
// loaded locales, e.g. "fr" for "fr-CA". Unknown preferences resolve to
// the default language.
func (l *Localizer) Lang() string {
	if l == nil || l.loc == nil {
		return config.DefaultLanguage
	}
	_, tag, err := l.loc.LocalizeWithTag(&i18n.LocalizeConfig{MessageID: config.TKeyWinTitle})
	if err != nil || tag == language.Und {
		return config.DefaultLanguage
	}
	base, _ := tag.Base()
	return base.String()
}

// Violation translates a validation message, falling back to its English text.
func (l *Localizer) Violation(v engine.Violation) string {
	key := ViolationKey(v)
	if key == "" {
		return v.String()
	}
	if msg := l.Msg(key); msg != key {
		return msg
	}
	return v.String()
}

// ViolationKey maps a violation to its translation key. Unknown or empty
// violations map to "".
func ViolationKey(v engine.Violation) string {
	switch v {
	case engine.ViolationRequired:
		return config.TKeyErrRequired
	case engine.ViolationInvalidDay:
		return config.TKeyErrDay
	case engine.ViolationInvalidMonth:
		return config.TKeyErrMonth
	case engine.ViolationYearInPast:
		return config.TKeyErrYear
	default:
		return ""
	}
}
