package gateway

import "context"

// NoopInvalidator satisfies Invalidator for deployments without a view cache.
type NoopInvalidator struct{}

// Invalidate implements Invalidator.
func (NoopInvalidator) Invalidate(context.Context, []string) error { return nil }

// RecordingInvalidator retains every invalidated key. Intended for tests and
// local debugging.
type RecordingInvalidator struct {
	Keys []string
}

// Invalidate implements Invalidator.
func (r *RecordingInvalidator) Invalidate(_ context.Context, keys []string) error {
	r.Keys = append(r.Keys, keys...)
	return nil
}
