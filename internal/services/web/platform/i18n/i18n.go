// Package i18n resolves the request language and carries the localizer
// templ components print with.
package i18n

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	platformi18n "github.com/louisbranch/relayweb/internal/platform/i18n"
	"github.com/louisbranch/relayweb/internal/platform/i18n/catalog"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "relay_lang"
)

// Localizer provides translated strings.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Printer returns a message printer for tag with the catalogs registered.
func Printer(tag language.Tag) *message.Printer {
	_ = catalog.Default()
	return message.NewPrinter(tag)
}

// ResolveTag determines the best language tag for the request.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return platformi18n.DefaultTag(), false
	}
	if r.URL != nil {
		if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
			if tag, ok := platformi18n.ParseTag(value); ok {
				return tag, true
			}
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}
	return platformi18n.DefaultTag(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// ResolveLocalizer resolves the request language, persisting an explicit
// choice, and returns its printer with the tag string.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request) (Localizer, string) {
	tag, persist := ResolveTag(r)
	if persist {
		SetLanguageCookie(w, tag)
	}
	return Printer(tag), tag.String()
}

type localizerKey struct{}

type langKey struct{}

// WithLocalizer stores loc and its language tag in ctx.
func WithLocalizer(ctx context.Context, loc Localizer, lang string) context.Context {
	ctx = context.WithValue(ctx, localizerKey{}, loc)
	return context.WithValue(ctx, langKey{}, lang)
}

// FromContext returns the localizer stored in ctx, or the default language
// printer.
func FromContext(ctx context.Context) Localizer {
	if ctx != nil {
		if loc, ok := ctx.Value(localizerKey{}).(Localizer); ok && loc != nil {
			return loc
		}
	}
	return Printer(platformi18n.DefaultTag())
}

// LangFromContext returns the language tag stored in ctx.
func LangFromContext(ctx context.Context) string {
	if ctx != nil {
		if lang, ok := ctx.Value(langKey{}).(string); ok && lang != "" {
			return lang
		}
	}
	return platformi18n.DefaultTag().String()
}

// T returns a translated string or a key-derived fallback.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if keyString, ok := key.(string); ok {
		if len(args) > 0 {
			return fmt.Sprintf(keyString, args...)
		}
		return keyString
	}
	return ""
}

// LanguageOption represents a supported language option in UI surfaces.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// LanguageOptions lists the supported languages with links that keep the
// current path and query.
func LanguageOptions(loc Localizer, activeLang string, path string, rawQuery string) []LanguageOption {
	active, ok := platformi18n.ParseTag(activeLang)
	if !ok {
		active = platformi18n.DefaultTag()
	}
	supported := platformi18n.SupportedTags()
	options := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  T(loc, languageKeyLabel(tag)),
			URL:    LanguageURL(path, rawQuery, tag.String()),
			Active: tag == active,
		})
	}
	return options
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(path string, rawQuery string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

func languageKeyLabel(tag language.Tag) string {
	base, _ := tag.Base()
	switch base.String() {
	case "pt":
		return "nav-lang-pt-br"
	case "de":
		return "nav-lang-de"
	default:
		return "nav-lang-en"
	}
}
