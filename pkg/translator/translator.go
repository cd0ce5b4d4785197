package translator

import (
	"path/filepath"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var Translator *i18n.Bundle

type Config struct {
	TranslationFolder  string
	SupportedLanguages []string
}

const (
	LanguageFr = "fr"
	LanguageEn = "en"
)

// InitTranslator loads every TOML catalog in the translation folder into the
// shared bundle. Missing or malformed catalogs are logged and skipped, so a
// broken translation never prevents startup.
func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	catalogs, err := filepath.Glob(filepath.Join(cfg.TranslationFolder, "*.toml"))
	if err != nil {
		zap.L().Error("failed to scan translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}
	if len(catalogs) == 0 {
		zap.L().Warn("no translation catalogs found", zap.String("folder", cfg.TranslationFolder))
		return
	}

	for _, catalog := range catalogs {
		if !isSupported(cfg.SupportedLanguages, catalog) {
			continue
		}
		if _, err := Translator.LoadMessageFile(catalog); err != nil {
			zap.L().Warn("failed to load translation catalog", zap.String("file", catalog), zap.Error(err))
		}
	}
}

// Catalogs are named after their language, e.g. en.toml.
func isSupported(languages []string, catalog string) bool {
	name := strings.TrimSuffix(filepath.Base(catalog), filepath.Ext(catalog))
	for _, lang := range languages {
		if name == lang {
			return true
		}
	}
	return false
}
