package registry

import (
	"sync"

	"github.com/arthur-debert/herald/pkg/errors"
)

// The active-registry slot gives hosts a process-wide convenience
// instance. Explicit ownership remains the primary model: New returns a
// registry the host passes around; the slot exists for code paths where
// threading one through is impractical.

var (
	activeMu sync.RWMutex
	active   *Registry
)

// SetActive installs r as the process-wide registry, replacing any
// previous instance wholesale. The replaced registry is left untouched;
// callers that still hold it can keep using it.
func SetActive(r *Registry) {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = r
}

// Active returns the process-wide registry. Before the first SetActive
// call it fails with ErrNotInitialized; it never creates a registry
// implicitly.
func Active() (*Registry, error) {
	activeMu.RLock()
	defer activeMu.RUnlock()

	if active == nil {
		return nil, errors.New(errors.ErrNotInitialized, "no active registry installed; call SetActive first")
	}
	return active, nil
}

// MustActive returns the process-wide registry and panics if none is
// installed. For program wiring where a missing registry is a programming
// error.
func MustActive() *Registry {
	r, err := Active()
	if err != nil {
		panic(err.Error())
	}
	return r
}

// ResetActive clears the slot so Active fails again. Test hygiene only.
func ResetActive() {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = nil
}
