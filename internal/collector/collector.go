// Package collector defines the Collector interface, the Registry that runs
// collectors and assembles their results into a report section, and the
// host facts collectors (OS, hardware, identity, processes, git).
package collector

import "context"

// Collector is the interface that all fact collectors must implement.
// Each collector produces exactly one fact of a report section.
type Collector interface {
	// Name returns the fact key this collector fills.
	Name() string

	// Collect gathers the fact. A nil value with a nil error means the fact
	// is legitimately absent and is reported as null. An error is replaced
	// by a CollectionFailed marker; it never affects other facts.
	Collect(ctx context.Context) (interface{}, error)

	// IsAvailable checks if this collector can run on the current platform.
	// Unavailable collectors still occupy their key, with a null value.
	IsAvailable() bool
}
