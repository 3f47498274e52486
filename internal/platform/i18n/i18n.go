// Package i18n exposes the locales the service can render and tag matching
// over them.
package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/louisbranch/relayweb/internal/platform/i18n/catalog"
)

var (
	supportedOnce sync.Once
	supported     []language.Tag
	matcher       language.Matcher
)

func load() {
	supportedOnce.Do(func() {
		def := language.MustParse(catalog.BaseLocale)
		supported = []language.Tag{def}
		for _, locale := range catalog.Default().Locales() {
			if locale == catalog.BaseLocale {
				continue
			}
			supported = append(supported, language.MustParse(locale))
		}
		matcher = language.NewMatcher(supported)
	})
}

// DefaultTag returns the base locale tag.
func DefaultTag() language.Tag {
	load()
	return supported[0]
}

// SupportedTags returns the catalog locales, base locale first.
func SupportedTags() []language.Tag {
	load()
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// ParseTag parses value and reports whether it names a supported locale,
// either exactly or by base language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	load()
	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return language.Und, false
	}
	return supported[idx], true
}

// MatchTags picks the best supported locale for a preference list, falling
// back to the default.
func MatchTags(preferred []language.Tag) language.Tag {
	load()
	if len(preferred) == 0 {
		return supported[0]
	}
	_, idx, conf := matcher.Match(preferred...)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}
