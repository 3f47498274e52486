package templates

import (
	"context"

	"github.com/a-h/templ"
)

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="20" height="20" aria-hidden="true" focusable="false" class="`

// WarningIcon is the glyph prefixed to warning titles.
func WarningIcon(class string) templ.Component {
	return icon(class, `<path fill="currentColor" d="M12 2 1 21h22L12 2zm1 15h-2v-2h2v2zm0-4h-2V9h2v4z"/>`)
}

// InfoIcon marks informational banners.
func InfoIcon(class string) templ.Component {
	return icon(class, `<path fill="currentColor" d="M12 2a10 10 0 1 0 0 20 10 10 0 0 0 0-20zm1 15h-2v-6h2v6zm0-8h-2V7h2v2z"/>`)
}

// CloseIcon is the dismiss glyph.
func CloseIcon(class string) templ.Component {
	return icon(class, `<path fill="currentColor" d="M19 6.4 17.6 5 12 10.6 6.4 5 5 6.4 10.6 12 5 17.6 6.4 19 12 13.4 17.6 19 19 17.6 13.4 12z"/>`)
}

// CheckIcon marks plan features.
func CheckIcon(class string) templ.Component {
	return icon(class, `<path fill="currentColor" d="M9 16.2 4.8 12l-1.4 1.4L9 19 21 7l-1.4-1.4z"/>`)
}

func icon(class string, paths string) templ.Component {
	return Fragment(func(_ context.Context, h *HTML) {
		h.Raw(svgOpen).Raw(templ.EscapeString(class)).Raw(`">`).Raw(paths).Raw(`</svg>`)
	})
}
