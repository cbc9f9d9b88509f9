// Package testutil provides utilities for testing herald components.
//
// Key components:
//   - RecordingService: an EventService double that records every event it handles
//   - Journal: a cross-service invocation log for ordering assertions
//   - Assert helpers for tests that don't pull in testify
//
// The doubles are deliberately deterministic: no goroutines, no clocks,
// so ordering assertions stay exact.
package testutil
