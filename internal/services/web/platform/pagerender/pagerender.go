// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	module "github.com/louisbranch/relayweb/internal/services/web/module"
	flashnotice "github.com/louisbranch/relayweb/internal/services/web/platform/flash"
	"github.com/louisbranch/relayweb/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
	"github.com/louisbranch/relayweb/internal/services/web/platform/requestmeta"
	webtemplates "github.com/louisbranch/relayweb/internal/services/web/templates"
)

// RequestResolver resolves viewer and cookie policy state from a request.
// This decouples platform rendering from the module-layer Dependencies type.
type RequestResolver interface {
	ResolveRequestViewer(r *http.Request) module.Viewer
	RequestSchemePolicy() requestmeta.SchemePolicy
}

// ModulePage describes a module page response for both full-page and HTMX flows.
type ModulePage struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
}

// LocalizedContext resolves the request localizer and stores it in the
// request context for templ components.
func LocalizedContext(w http.ResponseWriter, r *http.Request) (context.Context, webi18n.Localizer, string) {
	loc, lang := webi18n.ResolveLocalizer(w, r)
	return webi18n.WithLocalizer(httpx.RequestContext(r), loc, lang), loc, lang
}

// WriteModulePage writes a module page using shared app-shell rendering contracts.
func WriteModulePage(w http.ResponseWriter, r *http.Request, resolver RequestResolver, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = templ.NopComponent
	}

	ctx, loc, lang := LocalizedContext(w, r)
	ctx = templ.WithChildren(ctx, fragment)
	var buf bytes.Buffer
	if httpx.IsHTMXRequest(r) {
		if err := webtemplates.MainContent().Render(ctx, &buf); err != nil {
			return err
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(statusCode)
		_, _ = w.Write(buf.Bytes())
		return nil
	}

	viewer := module.Viewer{}
	policy := requestmeta.SchemePolicy{}
	if resolver != nil {
		viewer = resolver.ResolveRequestViewer(r)
		policy = resolver.RequestSchemePolicy()
	}
	layout := webtemplates.AppLayout(webtemplates.Page{
		Title:        page.Title,
		Lang:         lang,
		CurrentPath:  requestPath(r),
		CurrentQuery: requestQuery(r),
		Viewer:       webtemplates.Viewer{SignedIn: viewer.SignedIn, Email: viewer.Email},
		Toast:        resolveFlashToast(w, r, loc, policy),
	})
	if err := layout.Render(ctx, &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

func resolveFlashToast(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer, policy requestmeta.SchemePolicy) *webtemplates.AppToast {
	notice, ok := flashnotice.ReadAndClear(w, r, policy)
	if !ok {
		return nil
	}
	args := make([]any, 0, len(notice.Args))
	for _, arg := range notice.Args {
		args = append(args, arg)
	}
	message := strings.TrimSpace(webi18n.T(loc, notice.Key, args...))
	if message == "" {
		message = strings.TrimSpace(notice.Key)
	}
	if message == "" {
		return nil
	}
	return &webtemplates.AppToast{
		Kind:    string(notice.Kind),
		Message: message,
	}
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}

func requestQuery(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.RawQuery
}
