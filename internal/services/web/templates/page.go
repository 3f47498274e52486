package templates

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
)

// MainID is the element HTMX swaps page fragments into.
const MainID = "main-content"

const htmxSource = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// Viewer is the chrome state for the signed-in user.
type Viewer struct {
	SignedIn bool
	Email    string
}

// AppToast is a one-shot notice shown above the page.
type AppToast struct {
	Kind    string
	Message string
}

// Page configures the shared document layout.
type Page struct {
	Title        string
	Lang         string
	CurrentPath  string
	CurrentQuery string
	Viewer       Viewer
	Toast        *AppToast
}

// AppLayout renders the full document with the children as main content.
// The localizer comes from ctx.
func AppLayout(page Page) templ.Component {
	return Fragment(func(ctx context.Context, h *HTML) {
		loc := webi18n.FromContext(ctx)
		appName := webi18n.T(loc, "app-name")
		title := strings.TrimSpace(page.Title)
		if title == "" {
			title = appName
		} else {
			title += " | " + appName
		}
		lang := strings.TrimSpace(page.Lang)
		if lang == "" {
			lang = webi18n.LangFromContext(ctx)
		}

		h.Raw("<!DOCTYPE html>")
		h.Open("html", A("lang", lang))
		h.Open("head")
		h.Void("meta", A("charset", "utf-8"))
		h.Void("meta", A("name", "viewport"), A("content", "width=device-width, initial-scale=1"))
		h.Elem("title", title)
		h.Void("link", A("rel", "stylesheet"), A("href", routepath.StaticPrefix+"app.css"))
		h.Open("script", A("src", htmxSource), Flag("defer")).Close("script")
		h.Open("script", A("src", routepath.StaticPrefix+"relay.js"), Flag("defer")).Close("script")
		h.Close("head")

		h.Open("body", A("hx-boost", "true"), A("hx-target", "#"+MainID), A("hx-select", "#"+MainID), A("hx-swap", "outerHTML"))
		h.Elem("a", webi18n.T(loc, "app-skip-to-content"), A("href", "#"+MainID), Class("skip-link"))
		renderHeader(ctx, h, page, appName)
		renderToast(ctx, h, page.Toast)
		h.Component(ctx, MainContent())
		h.Close("body")
		h.Close("html")
	})
}

// MainContent renders only the main element around the children. HTMX
// requests receive this instead of the full document.
func MainContent() templ.Component {
	return Fragment(func(ctx context.Context, h *HTML) {
		h.Open("main", A("id", MainID), Class("app-main"))
		h.Component(ctx, templ.GetChildren(ctx))
		h.Close("main")
	})
}

func renderHeader(ctx context.Context, h *HTML, page Page, appName string) {
	loc := webi18n.FromContext(ctx)
	h.Open("header", Class("app-header"))
	h.Elem("a", appName, A("href", routepath.Root), Class("app-logo"))
	h.Open("nav", Class("app-nav"))
	h.Open("ul", Class("language-switcher"))
	for _, option := range webi18n.LanguageOptions(loc, page.Lang, page.CurrentPath, page.CurrentQuery) {
		h.Open("li")
		h.Elem("a", option.Label,
			A("href", option.URL),
			A("hreflang", option.Tag),
			If(option.Active, A("aria-current", "true")),
		)
		h.Close("li")
	}
	h.Close("ul")
	switch {
	case page.Viewer.SignedIn && page.Viewer.Email != "":
		h.Elem("span", page.Viewer.Email, Class("app-viewer"))
	case !page.Viewer.SignedIn:
		h.Elem("a", webi18n.T(loc, "nav-sign-in"), A("href", routepath.Go(routepath.IntentSignIn)), Class("button", "button-secondary"))
	}
	h.Close("nav")
	h.Close("header")
}

func renderToast(ctx context.Context, h *HTML, toast *AppToast) {
	if toast == nil || strings.TrimSpace(toast.Message) == "" {
		return
	}
	loc := webi18n.FromContext(ctx)
	h.Open("div", Class("toast", "toast-"+toast.Kind), A("role", "status"), A("data-toast", toast.Kind))
	h.Elem("p", toast.Message)
	h.Open("button", A("type", "button"), Class("toast-close"), A("aria-label", webi18n.T(loc, "notice-close")), A("data-toast-close", ""))
	h.Component(ctx, CloseIcon("toast-close-icon"))
	h.Close("button")
	h.Close("div")
}

// HiddenReturnTo renders the hidden return_to field forms post with.
func HiddenReturnTo(h *HTML, r *http.Request) {
	path := routepath.Root
	if r != nil && r.URL != nil {
		path = r.URL.RequestURI()
	}
	h.Void("input", A("type", "hidden"), A("name", routepath.ReturnToField), A("value", path))
}
