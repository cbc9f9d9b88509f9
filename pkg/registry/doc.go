// Package registry implements a typed event-dispatch registry: services
// register against the lifecycle events they handle, and dispatching an
// event notifies every interested service in registration order, one at a
// time.
//
// Registration identity is the Go type a service is registered under.
// Because Go methods cannot take type parameters, the typed operations are
// package-level functions that take the registry as their first argument:
//
//	r := registry.New()
//	err := registry.Register(r, &CacheService{}, EventStartup, EventShutdown)
//	err = registry.RegisterLazy(r, NewAnalytics, EventSignIn, EventSignIn, EventSignOut)
//	err = r.Dispatch(ctx, EventStartup)
//
// Eager registrations hold a live instance. Lazy registrations hold a
// factory and a trigger event: the factory runs at most once, when the
// trigger first fires, and the resolved instance is memoized for the
// registration's remaining events. Until the trigger fires a lazy service
// is never invoked, not even for other events on its list.
//
// Registries are usually owned explicitly and passed around. For hosts
// that want a process-wide instance, SetActive installs one behind the
// Active accessor.
package registry
