package accessor

import "context"

// Snapshot is the resolved state of one read. Ready is set only when Data
// holds a successful result; Err carries the failure otherwise. Reads resolve
// once per request, so a snapshot is never served mid-refresh.
type Snapshot[T any] struct {
	Data  T
	Ready bool
	Err   error
}

// Fetch runs load and captures its outcome as a snapshot.
func Fetch[T any](ctx context.Context, load func(context.Context) (T, error)) Snapshot[T] {
	if load == nil {
		var zero T
		return Snapshot[T]{Data: zero}
	}
	data, err := load(ctx)
	if err != nil {
		var zero T
		return Snapshot[T]{Data: zero, Err: err}
	}
	return Snapshot[T]{Data: data, Ready: true}
}

// Failed reports whether the snapshot settled on an error.
func (s Snapshot[T]) Failed() bool {
	return s.Err != nil
}
