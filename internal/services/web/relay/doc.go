// Package relay holds the dashboard's domain types: the viewer's profile and
// user record, their email masks (aliases), and the premium plan offered in
// their country, plus the pure derivations the views compute from them.
package relay
