package utils

import (
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

var (
	bundleLock sync.RWMutex
	bundle     *i18n.Bundle
)

// InitI18NBundle registers the built-in english messages and then every
// yaml translation file found in dir, so files may override the defaults.
func InitI18NBundle(dir string, messages ...[]*i18n.Message) error {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	for _, m := range messages {
		if err := b.AddMessages(language.English, m...); err != nil {
			return err
		}
	}

	if dir != "" {
		files, err := filepath.Glob(path.Join(dir, "*.yaml"))
		if err != nil {
			return err
		}
		for _, f := range files {
			if _, err := b.LoadMessageFile(f); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}

	bundleLock.Lock()
	bundle = b
	bundleLock.Unlock()
	return nil
}

func NewLocalizer(langs ...string) *i18n.Localizer {
	bundleLock.RLock()
	b := bundle
	bundleLock.RUnlock()

	if b == nil {
		b = i18n.NewBundle(language.English)
	}
	return i18n.NewLocalizer(b, langs...)
}

// Localize renders a message in the first matching language and falls back
// to the built-in english text.
func Localize(m *i18n.Message, data interface{}, langs ...string) string {
	if m == nil {
		return ""
	}

	text, err := NewLocalizer(langs...).Localize(&i18n.LocalizeConfig{
		DefaultMessage: m,
		TemplateData:   data,
	})
	if err != nil {
		return m.Other
	}
	return text
}
