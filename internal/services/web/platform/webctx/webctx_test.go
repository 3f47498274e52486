package webctx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithToken(context.Background(), " tok ")
	if got := Token(ctx); got != "tok" {
		t.Fatalf("Token() = %q, want tok", got)
	}
	if got := Token(WithToken(context.Background(), " ")); got != "" {
		t.Fatalf("Token(blank) = %q, want empty", got)
	}
	if got := RequestToken(nil); got != "" {
		t.Fatalf("RequestToken(nil) = %q", got)
	}
}

func TestViewerEmail(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ViewerEmail(req); got != "" {
		t.Fatalf("ViewerEmail() = %q, want empty", got)
	}
	req = WithViewerEmail(req, "a@example.com")
	if got := ViewerEmail(req); got != "a@example.com" {
		t.Fatalf("ViewerEmail() = %q", got)
	}
}
