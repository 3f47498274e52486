package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestResolveTagPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		target      string
		cookie      string
		accept      string
		wantBase    string
		wantPersist bool
	}{
		{name: "default", target: "/", wantBase: "en"},
		{name: "query wins", target: "/?lang=de", cookie: "pt-BR", accept: "pt-BR", wantBase: "de", wantPersist: true},
		{name: "cookie over header", target: "/", cookie: "pt-BR", accept: "de", wantBase: "pt"},
		{name: "accept language", target: "/", accept: "de-DE,de;q=0.9", wantBase: "de"},
		{name: "unknown query ignored", target: "/?lang=xx", wantBase: "en"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			tag, persist := ResolveTag(req)
			base, _ := tag.Base()
			if base.String() != tc.wantBase {
				t.Fatalf("tag = %v, want base %q", tag, tc.wantBase)
			}
			if persist != tc.wantPersist {
				t.Fatalf("persist = %v, want %v", persist, tc.wantPersist)
			}
		})
	}
}

func TestResolveLocalizerPersistsQueryChoice(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	loc, lang := ResolveLocalizer(w, httptest.NewRequest(http.MethodGet, "/?lang=pt-BR", nil))
	if !strings.HasPrefix(lang, "pt") {
		t.Fatalf("lang = %q, want pt", lang)
	}
	if got := w.Header().Get("Set-Cookie"); !strings.Contains(got, LangCookieName+"=") {
		t.Fatalf("Set-Cookie = %q", got)
	}
	if loc == nil {
		t.Fatal("localizer = nil")
	}
}

func TestLocalizerFormatsCatalogMessages(t *testing.T) {
	t.Parallel()

	loc, _ := ResolveLocalizer(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	got := loc.Sprintf("modal-domain-register-success", "alias123.mozmail.com")
	if !strings.Contains(got, "alias123.mozmail.com") {
		t.Fatalf("message = %q, want subdomain", got)
	}
}

func TestContextLocalizerFallsBackToDefault(t *testing.T) {
	t.Parallel()

	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() = nil")
	}
	ctx := WithLocalizer(context.Background(), Printer(language.German), "de")
	if got := LangFromContext(ctx); got != "de" {
		t.Fatalf("lang = %q, want de", got)
	}
}

func TestLanguageOptionsKeepQuery(t *testing.T) {
	t.Parallel()

	options := LanguageOptions(nil, "de", "/app/profile/", "tab=aliases&lang=en-US")
	if len(options) < 2 {
		t.Fatalf("options = %v", options)
	}
	var active int
	for _, option := range options {
		if option.Active {
			active++
			if option.Tag != "de" {
				t.Fatalf("active tag = %q, want de", option.Tag)
			}
		}
		if !strings.Contains(option.URL, "tab=aliases") || !strings.Contains(option.URL, "lang="+option.Tag) {
			t.Fatalf("url = %q", option.URL)
		}
	}
	if active != 1 {
		t.Fatalf("active options = %d, want 1", active)
	}
}

