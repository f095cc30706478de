package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/painless/shop/internal/infrastructure/i18n"
)

// Language context keys
const (
	LanguageKey   = "language"
	translatorKey = "translator"
)

// Language resolves Accept-Language to one of the supported languages and sets Content-Language
func Language(translator *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := translator.Match(c.GetHeader("Accept-Language"))
		c.Set(LanguageKey, tag)
		c.Set(translatorKey, translator)
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}

// GetLanguage returns the request language, English when Language did not run
func GetLanguage(c *gin.Context) language.Tag {
	if v, ok := c.Get(LanguageKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return language.English
}

// Localize renders a message key in the request language.
// Without a translator the key itself, which is the English text, is returned.
func Localize(c *gin.Context, key string) string {
	if t := getTranslator(c); t != nil {
		return t.Translate(GetLanguage(c), key)
	}
	return key
}

// RetryAfterMessage renders the pluralized wait message
func RetryAfterMessage(c *gin.Context, seconds int) string {
	if t := getTranslator(c); t != nil {
		return t.RetryAfter(GetLanguage(c), seconds)
	}
	if seconds == 1 {
		return "Bad Request. Expected available in 1 second."
	}
	return "Bad Request. Expected available in " + strconv.Itoa(seconds) + " seconds."
}

func getTranslator(c *gin.Context) *i18n.Translator {
	if v, ok := c.Get(translatorKey); ok {
		if t, ok := v.(*i18n.Translator); ok {
			return t
		}
	}
	return nil
}
