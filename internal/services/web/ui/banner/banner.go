// Package banner renders the standard notice banners: promotional, warning
// and informational, optionally dismissible and with one call to action.
package banner

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/relayweb/internal/services/web/analytics"
	"github.com/louisbranch/relayweb/internal/services/web/dismissal"
	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/relayweb/internal/services/web/templates"
)

// Type selects the banner theme. The zero value is TypeWarning.
type Type int

const (
	TypeWarning Type = iota
	TypePromo
	TypeInfo
)

func (t Type) class() string {
	switch t {
	case TypeWarning:
		return "banner-warning"
	case TypePromo:
		return "banner-promo"
	case TypeInfo:
		return "banner-info"
	default:
		return ""
	}
}

// CTASize selects the call to action layout. The zero value is CTASizeMedium.
type CTASize int

const (
	CTASizeMedium CTASize = iota
	CTASizeLarge
)

// CTAAction is what activating the call to action does. It is implemented
// by CTATarget and CTAHandler only.
type CTAAction interface {
	ctaAction()
}

// CTATarget opens URL in a new browsing context.
type CTATarget struct {
	URL string
}

func (CTATarget) ctaAction() {}

// CTAHandler posts to a server-side handler at Path.
type CTAHandler struct {
	Path string
}

func (CTAHandler) ctaAction() {}

// CTA is the banner's call to action. When Ping is set the control reports
// an impression the first time it becomes visible.
type CTA struct {
	Action CTAAction
	Label  string
	Size   CTASize
	Ping   *analytics.Ping
}

// Props configures one banner.
type Props struct {
	Body         templ.Component
	Type         Type
	Title        string
	Illustration templ.Component
	CTA          *CTA
	// Dismissal makes the banner dismissible; Dismissals answers whether it
	// currently is.
	Dismissal       *dismissal.Descriptor
	Dismissals      dismissal.Checker
	Observer        analytics.Observer
	HiddenWithAddon bool
	// ReturnTo is where the dismiss handler redirects; defaults to "/".
	ReturnTo string
}

// Render returns the banner component, or nil when the banner is dismissed.
func Render(ctx context.Context, props Props) templ.Component {
	if props.Dismissal != nil && props.Dismissals != nil && props.Dismissals.IsDismissed(ctx, *props.Dismissal) {
		return nil
	}
	return webtemplates.Fragment(func(ctx context.Context, h *webtemplates.HTML) {
		loc := webi18n.FromContext(ctx)
		large := props.CTA != nil && props.CTA.Size == CTASizeLarge

		h.Open("div", webtemplates.Class("banner", props.Type.class(), hiddenWithAddonClass(props.HiddenWithAddon)))
		h.Open("div", webtemplates.Class("highlight-wrapper"))
		if props.Illustration != nil {
			h.Open("div", webtemplates.Class("illustration"))
			h.Component(ctx, props.Illustration)
			h.Close("div")
		}
		if props.Type == TypeInfo {
			h.Open("div", webtemplates.Class("info-icon"))
			h.Component(ctx, webtemplates.InfoIcon("icon"))
			h.Close("div")
		}
		h.Open("div", webtemplates.Class("title-text"))
		renderTitle(ctx, h, props.Type, props.Title)
		h.Component(ctx, props.Body)
		if props.CTA != nil && !large {
			renderCTA(ctx, h, *props.CTA, props.Observer)
		}
		h.Close("div")
		if large {
			renderCTA(ctx, h, *props.CTA, props.Observer)
		}
		h.Close("div")
		if props.Dismissal != nil {
			renderDismiss(ctx, h, props.Dismissal.Key, props.ReturnTo, webi18n.T(loc, "banner-dismiss"))
		}
		h.Close("div")
	})
}

func hiddenWithAddonClass(hidden bool) string {
	if hidden {
		return "is-hidden-with-addon"
	}
	return ""
}

func renderTitle(ctx context.Context, h *webtemplates.HTML, t Type, title string) {
	if title == "" {
		return
	}
	switch t {
	case TypeWarning:
		h.Open("h2", webtemplates.Class("title"))
		h.Component(ctx, webtemplates.WarningIcon("icon"))
		h.Text(title)
		h.Close("h2")
	case TypeInfo, TypePromo:
		h.Elem("h2", title, webtemplates.Class("title"))
	}
}

func renderCTA(ctx context.Context, h *webtemplates.HTML, cta CTA, observer analytics.Observer) {
	class := "cta"
	if cta.Size == CTASizeLarge {
		class = "cta-large-button"
	}
	label := []webtemplates.Attr{}
	if cta.Ping != nil && observer != nil {
		label = webtemplates.Spread(observer.OnBecameVisible(*cta.Ping))
	}

	h.Open("div", webtemplates.Class(class))
	switch action := cta.Action.(type) {
	case CTATarget:
		h.Open("a", webtemplates.A("href", action.URL), webtemplates.A("target", "_blank"), webtemplates.A("rel", "noopener noreferrer"))
		h.Elem("span", cta.Label, label...)
		h.Close("a")
	case CTAHandler:
		h.Open("form", webtemplates.A("method", "post"), webtemplates.A("action", action.Path))
		h.Open("button", webtemplates.A("type", "submit"))
		h.Elem("span", cta.Label, label...)
		h.Close("button")
		h.Close("form")
	}
	h.Close("div")
}

func renderDismiss(ctx context.Context, h *webtemplates.HTML, key string, returnTo string, label string) {
	if strings.TrimSpace(returnTo) == "" {
		returnTo = routepath.Root
	}
	h.Open("form", webtemplates.A("method", "post"), webtemplates.A("action", routepath.BannersDismiss), webtemplates.Class("dismiss-form"))
	h.Void("input", webtemplates.A("type", "hidden"), webtemplates.A("name", "key"), webtemplates.A("value", key))
	h.Void("input", webtemplates.A("type", "hidden"), webtemplates.A("name", routepath.ReturnToField), webtemplates.A("value", returnTo))
	h.Open("button", webtemplates.A("type", "submit"), webtemplates.Class("dismiss-button"), webtemplates.A("title", label), webtemplates.A("aria-label", label))
	h.Component(ctx, webtemplates.CloseIcon("icon"))
	h.Close("button")
	h.Close("form")
}
