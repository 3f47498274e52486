// Package sqlite provides the web cache persistence adapter backed by SQLite.
//
// This store is intentionally service-owned and only contains derived cache
// state that can be rebuilt from upstream service APIs.
package sqlite
