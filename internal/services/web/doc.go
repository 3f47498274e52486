// Package web serves the email-alias dashboard: the marketing landing page
// with its plan comparison, the signed-in profile page, tracked outbound
// navigation and banner dismissal.
//
// The server composes module routes over a relay API backend and keeps
// request-scoped concerns (viewer token, dismissal storage, locale) out of
// the modules themselves.
package web
