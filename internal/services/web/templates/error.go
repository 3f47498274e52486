package templates

import (
	"context"
	"net/http"

	"github.com/a-h/templ"

	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
	"github.com/louisbranch/relayweb/internal/services/web/routepath"
)

// AppErrorPageTitle returns the document title for an error status.
func AppErrorPageTitle(statusCode int, loc webi18n.Localizer) string {
	if statusCode == http.StatusNotFound {
		return webi18n.T(loc, "error-page-title-not-found")
	}
	return webi18n.T(loc, "error-page-title-server")
}

// AppErrorState renders the error panel for statusCode.
func AppErrorState(statusCode int, loc webi18n.Localizer) templ.Component {
	heading, message := "error-heading-server", "error-message-server"
	if statusCode == http.StatusNotFound {
		heading, message = "error-heading-not-found", "error-message-not-found"
	}
	return Fragment(func(_ context.Context, h *HTML) {
		h.Open("section", A("id", "app-error-state"), Class("error-state"), A("data-status", http.StatusText(statusCode)))
		h.Elem("h1", webi18n.T(loc, heading))
		h.Elem("p", webi18n.T(loc, message))
		h.Elem("a", webi18n.T(loc, "error-action-back"), A("href", routepath.AppProfile), Class("button", "button-primary"))
		h.Close("section")
	})
}
