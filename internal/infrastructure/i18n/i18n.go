// Package i18n resolves the request language and renders the handful of
// user-facing messages the API localizes.
package i18n

import (
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/painless/shop/internal/infrastructure/config"
)

// Message keys.
const (
	KeyRetryAfter         = "Bad Request. Expected available in %d second(s)."
	KeyServerError        = "Server Error"
	KeyInvalidCredentials = "Please enter a correct phone number and password. Note that both fields may be case-sensitive."
	KeyPasswordsMismatch  = "Your passwords must match"
	KeyAuthRequired       = "Authentication credentials were not provided."
	KeyPermissionDenied   = "You do not have permission to perform this action."
	KeyNotFound           = "Not found."
)

var persian = language.Persian

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	_ = b.Set(language.English, KeyRetryAfter, plural.Selectf(1, "%d",
		"=1", "Bad Request. Expected available in %d second.",
		"other", "Bad Request. Expected available in %d seconds.",
	))
	_ = b.Set(persian, KeyRetryAfter, plural.Selectf(1, "%d",
		"other", "درخواست نامعتبر. تا %d ثانیه دیگر در دسترس خواهد بود.",
	))

	_ = b.SetString(language.English, KeyServerError, KeyServerError)
	_ = b.SetString(persian, KeyServerError, "خطای سرور")
	_ = b.SetString(language.English, KeyInvalidCredentials, KeyInvalidCredentials)
	_ = b.SetString(persian, KeyInvalidCredentials, "لطفا شماره تلفن و رمز عبور صحیح را وارد کنید.")
	_ = b.SetString(language.English, KeyPasswordsMismatch, KeyPasswordsMismatch)
	_ = b.SetString(persian, KeyPasswordsMismatch, "رمزهای عبور باید یکسان باشند")
	_ = b.SetString(language.English, KeyAuthRequired, KeyAuthRequired)
	_ = b.SetString(persian, KeyAuthRequired, "اطلاعات احراز هویت ارسال نشده است.")
	_ = b.SetString(language.English, KeyPermissionDenied, KeyPermissionDenied)
	_ = b.SetString(persian, KeyPermissionDenied, "شما اجازه انجام این عمل را ندارید.")
	_ = b.SetString(language.English, KeyNotFound, KeyNotFound)
	_ = b.SetString(persian, KeyNotFound, "یافت نشد.")
	return b
}

// Translator picks one of the configured languages for a request.
type Translator struct {
	catalog  *catalog.Builder
	matcher  language.Matcher
	tags     []language.Tag
	fallback language.Tag
}

// New builds a translator for cfg.Languages. The default language is tried first.
// Unparseable tags are skipped; an empty result falls back to English.
func New(cfg config.I18nConfig) *Translator {
	var tags []language.Tag
	seen := map[language.Tag]bool{}
	add := func(s string) {
		tag, err := language.Parse(strings.TrimSpace(s))
		if err != nil || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	add(cfg.DefaultLanguage)
	for _, l := range cfg.Languages {
		add(l)
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
	}

	return &Translator{
		catalog:  newCatalog(),
		matcher:  language.NewMatcher(tags),
		tags:     tags,
		fallback: tags[0],
	}
}

// Languages returns the supported tags, default first.
func (t *Translator) Languages() []language.Tag {
	return append([]language.Tag(nil), t.tags...)
}

// Match resolves an Accept-Language header value to a supported tag.
func (t *Translator) Match(acceptLanguage string) language.Tag {
	if strings.TrimSpace(acceptLanguage) == "" {
		return t.fallback
	}
	_, idx := language.MatchStrings(t.matcher, acceptLanguage)
	return t.tags[idx]
}

// Printer returns a printer for tag backed by the shop catalog.
func (t *Translator) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(t.catalog))
}

// RetryAfter renders the wait message for a throttled or blocked client.
func (t *Translator) RetryAfter(tag language.Tag, seconds int) string {
	return t.Printer(tag).Sprintf(KeyRetryAfter, seconds)
}

// Translate renders a catalog key. Unknown keys are returned unchanged.
func (t *Translator) Translate(tag language.Tag, key string) string {
	return t.Printer(tag).Sprintf(key)
}
