package templates

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	webi18n "github.com/louisbranch/relayweb/internal/services/web/platform/i18n"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestHTMLEscapesTextAndAttributes(t *testing.T) {
	t.Parallel()

	got := render(t, context.Background(), Fragment(func(_ context.Context, h *HTML) {
		h.Elem("p", `<b>"hi"</b>`, A("title", `a"b`), Class("", "x", " "), If(false, Flag("hidden")), Flag("data-on"))
	}))
	want := `<p title="a&#34;b" class="x" data-on>&lt;b&gt;&#34;hi&#34;&lt;/b&gt;</p>`
	if got != want {
		t.Fatalf("html = %q, want %q", got, want)
	}
}

func TestSpreadOrdersKeys(t *testing.T) {
	t.Parallel()

	attrs := Spread(templ.Attributes{"b": "2", "a": true, "c": false, "d": 4})
	var keys []string
	for _, attr := range attrs {
		if !attr.Omit {
			keys = append(keys, attr.Key)
		}
	}
	if got := strings.Join(keys, ","); got != "a,b,d" {
		t.Fatalf("keys = %q, want a,b,d", got)
	}
}

func TestAppLayoutWrapsChildren(t *testing.T) {
	t.Parallel()

	ctx := webi18n.WithLocalizer(context.Background(), webi18n.Printer(language.AmericanEnglish), "en-US")
	child := Fragment(func(_ context.Context, h *HTML) { h.Elem("p", "child") })
	got := render(t, templ.WithChildren(ctx, child), AppLayout(Page{
		Title:       "Dashboard",
		CurrentPath: "/app/profile/",
		Viewer:      Viewer{SignedIn: true, Email: "a@example.com"},
		Toast:       &AppToast{Kind: "success", Message: "Saved"},
	}))
	for _, want := range []string{
		`<html lang="en-US">`,
		"<title>Dashboard | Firefox Relay</title>",
		`<main id="main-content" class="app-main"><p>child</p></main>`,
		"a@example.com",
		`data-toast="success"`,
		"lang=pt-BR",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("layout missing %q in:\n%s", want, got)
		}
	}
}

func TestAppErrorState(t *testing.T) {
	t.Parallel()

	loc := webi18n.Printer(language.AmericanEnglish)
	got := render(t, context.Background(), AppErrorState(http.StatusNotFound, loc))
	if !strings.Contains(got, "find that page") {
		t.Fatalf("error state = %q", got)
	}
	if AppErrorPageTitle(http.StatusBadGateway, loc) != "Something went wrong" {
		t.Fatalf("title = %q", AppErrorPageTitle(http.StatusBadGateway, loc))
	}
}

func TestFragmentStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := Fragment(func(_ context.Context, h *HTML) {
		h.Elem("p", "late")
	}).Render(ctx, &buf)
	if err != context.Canceled {
		t.Fatalf("Render() error = %v, want %v", err, context.Canceled)
	}
	if buf.Len() != 0 {
		t.Fatalf("cancelled fragment wrote %q", buf.String())
	}
}
