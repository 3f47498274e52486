// Package timeouts defines shared timeout constants used by the web service.
package timeouts

import "time"

// AccessorRequest caps a single relay API call, retries included.
const AccessorRequest = 5 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StoreOpen caps connecting to a persistent dismissal store at startup.
const StoreOpen = 3 * time.Second
