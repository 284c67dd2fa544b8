// Package i18n loads the embedded translation catalogs and localizes
// user-facing labels per request. Arabic is the portal's default language;
// English is served when the request asks for it.
package i18n

import (
	"fmt"
	"io/fs"

	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Translator holds the parsed message bundle. It is safe for concurrent use;
// construct one at startup and share it.
type Translator struct {
	bundle *i18n.Bundle
}

// New parses the embedded locale catalogs into a Translator.
func New() (*Translator, error) {
	bundle := i18n.NewBundle(language.Arabic)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", f.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, f.Name()); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", f.Name(), err)
		}
	}

	return &Translator{bundle: bundle}, nil
}

// Localizer builds a per-request localizer from language preferences, most
// preferred first. Accept-Language header values are accepted verbatim.
// Arabic is always appended as the final fallback.
func (t *Translator) Localizer(langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(t.bundle, append(langs, "ar")...)
}

// T localizes a message ID with the given localizer. Unknown IDs come back
// unchanged so a missing catalog entry never blanks a label.
func T(loc *i18n.Localizer, messageID string) string {
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	return msg
}
