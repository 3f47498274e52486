// Package webctx provides shared web request context helpers.
package webctx

import (
	"context"
	"net/http"
	"strings"
)

type tokenKey struct{}

type viewerEmailKey struct{}

// WithToken stores the viewer's relay API token.
func WithToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// Token returns the token stored by WithToken, or "".
func Token(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// RequestToken returns the token of r, or "".
func RequestToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	return Token(r.Context())
}

// WithViewerEmail stores the email shown in the app chrome once a handler
// has loaded it.
func WithViewerEmail(r *http.Request, email string) *http.Request {
	if r == nil {
		return nil
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), viewerEmailKey{}, email))
}

// ViewerEmail returns the email stored by WithViewerEmail, or "".
func ViewerEmail(r *http.Request) string {
	if r == nil {
		return ""
	}
	email, _ := r.Context().Value(viewerEmailKey{}).(string)
	return email
}
