package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"cropadvisor/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

// MissingParamMarker is rendered in place of a template parameter the caller
// did not supply (text/template's output for a missing map key).
const MissingParamMarker = "<no value>"

// Ensure Translator implements the output.T port.
var _ output.T = (*Translator)(nil)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
// The bundle is loaded once and only read afterwards, so a Translator is
// safe for concurrent use.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	logger          *zap.Logger
}

// NewTranslator builds a Translator from the embedded active.*.toml catalogs
// using the given default locale (e.g. "en").
func NewTranslator(defaultLocale string, logger *zap.Logger) (*Translator, error) {
	return NewTranslatorFS(localeFS, defaultLocale, logger)
}

// NewTranslatorFS loads every active.<lang>.toml file at the root of fsys.
func NewTranslatorFS(fsys fs.FS, defaultLocale string, logger *zap.Logger) (*Translator, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("i18n: invalid default locale %q: %w", defaultLocale, err)
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(fsys, "active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("i18n: list catalogs: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("i18n: no catalogs found")
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(fsys, file); err != nil {
			return nil, fmt.Errorf("i18n: load %s: %w", path.Base(file), err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		logger:          logger.Named("i18n"),
	}, nil
}

// DefaultLocale returns the fallback locale, e.g. "en".
func (t *Translator) DefaultLocale() string {
	return t.defaultLanguage.String()
}

// Languages lists the locales with a loaded catalog.
func (t *Translator) Languages() []string {
	tags := t.bundle.LanguageTags()
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = tag.String()
	}
	return out
}

// T renders the message identified by key for the given locale.
// If the key/locale is not found, it falls back to the default locale,
// then finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Warn("Localize failed",
			zap.String("key", key),
			zap.Strings("locales", languages),
			zap.Error(err))
		return key
	}
	return msg
}

// Missing returns the keys that have no message in the default locale.
func (t *Translator) Missing(keys []string) []string {
	localizer := i18n.NewLocalizer(t.bundle, t.defaultLanguage.String())
	var missing []string
	for _, key := range keys {
		if _, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: key}); err != nil {
			missing = append(missing, key)
		}
	}
	return missing
}
