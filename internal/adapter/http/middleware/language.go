package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"heunets/pkg/translator"
)

const langContextKey = "lang"

// LanguageMiddleware picks the response language from the Accept-Language
// header. Only the primary subtag of the first listed language is kept;
// unsupported languages fall back to English.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(langContextKey, resolveLang(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func GetLang(c *gin.Context) string {
	if lang, exists := c.Get(langContextKey); exists {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return translator.LanguageEn
}

func resolveLang(header string) string {
	// "fr-FR,fr;q=0.9,en;q=0.8" -> "fr"
	lang := header
	if i := strings.IndexAny(lang, ",;"); i >= 0 {
		lang = lang[:i]
	}
	if i := strings.Index(lang, "-"); i >= 0 {
		lang = lang[:i]
	}
	lang = strings.ToLower(strings.TrimSpace(lang))

	switch lang {
	case translator.LanguageEn, translator.LanguageFr:
		return lang
	default:
		return translator.LanguageEn
	}
}
