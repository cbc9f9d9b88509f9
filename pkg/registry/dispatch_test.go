// pkg/registry/dispatch_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: pkg/testutil
// PURPOSE: Test event delivery order, lazy materialization, and failure handling

package registry

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/herald/pkg/errors"
	"github.com/arthur-debert/herald/pkg/testutil"
	"github.com/arthur-debert/herald/pkg/types"
)

// Recording doubles. Registrations are keyed by type, so each service in a
// test scenario needs its own named type.

type databaseService struct{ testutil.RecordingService }

type mailerService struct{ testutil.RecordingService }

type telemetryService struct{ testutil.RecordingService }

type analyticsService struct{ testutil.RecordingService }

type searchService struct{ testutil.RecordingService }

func recorder(name string, j *testutil.Journal) testutil.RecordingService {
	return testutil.RecordingService{Name: name, Journal: j}
}

func TestDispatchDeliversInRegistrationOrder(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	require.NoError(t, Register(reg, &databaseService{recorder("database", j)}, "app.startup"))
	require.NoError(t, Register(reg, &mailerService{recorder("mailer", j)}, "app.startup"))
	require.NoError(t, Register(reg, &telemetryService{recorder("telemetry", j)}, "app.startup"))

	require.NoError(t, reg.Dispatch(context.Background(), "app.startup"))

	testutil.AssertEntriesEqual(t, []string{
		"database:app.startup",
		"mailer:app.startup",
		"telemetry:app.startup",
	}, j.Entries())
}

func TestDispatchFiltersByEventList(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	db := &databaseService{recorder("database", j)}
	mailer := &mailerService{recorder("mailer", j)}

	require.NoError(t, Register(reg, db, "app.startup", "app.shutdown"))
	require.NoError(t, Register(reg, mailer, "app.signin"))

	require.NoError(t, reg.Dispatch(context.Background(), "app.shutdown"))

	testutil.AssertEventsEqual(t, []types.Event{"app.shutdown"}, db.Events())
	assert.Zero(t, mailer.Count(), "mailer does not declare app.shutdown")
}

func TestDispatchWithNoRegistrations(t *testing.T) {
	reg := New()

	require.NoError(t, reg.Dispatch(context.Background(), "app.startup"))
}

func TestDispatchEventNobodyDeclares(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	require.NoError(t, Register(reg, &databaseService{recorder("database", j)}, "app.startup"))

	require.NoError(t, reg.Dispatch(context.Background(), "app.refresh"))
	assert.Zero(t, j.Len())
}

func TestDispatchLazyLifecycle(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	require.NoError(t, Register(reg, &databaseService{recorder("database", j)}, "app.startup", "app.refresh"))

	factoryCalls := 0
	require.NoError(t, RegisterLazy(reg, func() *analyticsService {
		factoryCalls++
		return &analyticsService{recorder("analytics", j)}
	}, "app.signin", "app.signin", "app.refresh"))

	ctx := context.Background()

	// Before the trigger fires the factory stays untouched, even for
	// events the lazy registration declares.
	require.NoError(t, reg.Dispatch(ctx, "app.startup"))
	require.NoError(t, reg.Dispatch(ctx, "app.refresh"))
	assert.Zero(t, factoryCalls, "factory must not run before its trigger")

	// The trigger materializes the service and delivers the trigger
	// event to it.
	require.NoError(t, reg.Dispatch(ctx, "app.signin"))
	assert.Equal(t, 1, factoryCalls)

	// From here on it behaves like an eager registration.
	require.NoError(t, reg.Dispatch(ctx, "app.refresh"))
	assert.Equal(t, 1, factoryCalls, "factory runs at most once")

	testutil.AssertEntriesEqual(t, []string{
		"database:app.startup",
		"database:app.refresh",
		"analytics:app.signin",
		"database:app.refresh",
		"analytics:app.refresh",
	}, j.Entries())

	// The snapshot reflects the resolved state.
	snap := reg.Snapshot()
	require.Len(t, snap, 2)
	assert.True(t, snap[1].Lazy)
	assert.True(t, snap[1].Resolved)
}

func TestDispatchLazyKeepsRegistrationOrder(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	require.NoError(t, Register(reg, &databaseService{recorder("database", j)}, "app.refresh"))
	require.NoError(t, RegisterLazy(reg, func() *analyticsService {
		return &analyticsService{recorder("analytics", j)}
	}, "app.refresh", "app.refresh"))
	require.NoError(t, Register(reg, &telemetryService{recorder("telemetry", j)}, "app.refresh"))

	// Materialization happens mid-pass; the lazy service keeps its
	// original slot between database and telemetry.
	require.NoError(t, reg.Dispatch(context.Background(), "app.refresh"))
	require.NoError(t, reg.Dispatch(context.Background(), "app.refresh"))

	testutil.AssertEntriesEqual(t, []string{
		"database:app.refresh",
		"analytics:app.refresh",
		"telemetry:app.refresh",
		"database:app.refresh",
		"analytics:app.refresh",
		"telemetry:app.refresh",
	}, j.Entries())
}

func TestDispatchFactoryReturnsNil(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	require.NoError(t, Register(reg, &databaseService{recorder("database", j)}, "app.signin"))
	require.NoError(t, RegisterLazy(reg, func() *analyticsService { return nil },
		"app.signin", "app.signin"))
	require.NoError(t, Register(reg, &telemetryService{recorder("telemetry", j)}, "app.signin"))

	err := reg.Dispatch(context.Background(), "app.signin")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidRegistration),
		"nil factory result should surface as ErrInvalidRegistration, got %v", err)

	// The pass aborts at the broken registration.
	testutil.AssertEntriesEqual(t, []string{"database:app.signin"}, j.Entries())

	// The registration itself survives; it is the factory result that
	// was rejected.
	assert.True(t, IsRegistered[*analyticsService](reg))
}

func TestDispatchFailFast(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	require.NoError(t, Register(reg, &databaseService{recorder("database", j)}, "app.shutdown"))

	flaky := &mailerService{recorder("mailer", j)}
	flaky.FailOn = "app.shutdown"
	require.NoError(t, Register(reg, flaky, "app.shutdown"))

	require.NoError(t, Register(reg, &telemetryService{recorder("telemetry", j)}, "app.shutdown"))

	err := reg.Dispatch(context.Background(), "app.shutdown")
	require.Error(t, err)

	assert.True(t, errors.IsErrorCode(err, errors.ErrDispatchFailed))
	assert.True(t, stderrors.Is(err, testutil.ErrHandlerFailure),
		"wrapped error should preserve the handler's failure")

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "*registry.mailerService", details["service"])
	assert.Equal(t, "app.shutdown", details["event"])

	// telemetry never ran: the pass stopped at the mailer.
	testutil.AssertEntriesEqual(t, []string{
		"database:app.shutdown",
		"mailer:app.shutdown",
	}, j.Entries())
}

func TestDispatchFailureLeavesRegistrationsIntact(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	flaky := &mailerService{recorder("mailer", j)}
	flaky.FailOn = "app.shutdown"
	require.NoError(t, Register(reg, flaky, "app.shutdown"))

	require.Error(t, reg.Dispatch(context.Background(), "app.shutdown"))

	// A failed pass removes nothing; the next dispatch sees the same
	// registrations.
	assert.Equal(t, 1, reg.Len())
	require.Error(t, reg.Dispatch(context.Background(), "app.shutdown"))
	assert.Equal(t, 2, flaky.Count())
}

func TestDispatchCancelledContext(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	require.NoError(t, Register(reg, &databaseService{recorder("database", j)}, "app.startup"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := reg.Dispatch(ctx, "app.startup")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDispatchFailed))
	assert.True(t, stderrors.Is(err, context.Canceled))
	assert.Zero(t, j.Len(), "no handler runs under a cancelled context")
}

func TestDispatchCancelledMidPass(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	ctx, cancel := context.WithCancel(context.Background())

	db := &databaseService{recorder("database", j)}
	db.OnHandle = func(context.Context, types.Event) { cancel() }
	require.NoError(t, Register(reg, db, "app.shutdown"))
	require.NoError(t, Register(reg, &mailerService{recorder("mailer", j)}, "app.shutdown"))

	err := reg.Dispatch(ctx, "app.shutdown")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))

	// Cancellation is observed between handlers: database ran, mailer
	// was never invoked.
	testutil.AssertEntriesEqual(t, []string{"database:app.shutdown"}, j.Entries())
}

func TestDispatchHandlerRegistersAnotherService(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	db := &databaseService{recorder("database", j)}
	db.OnHandle = func(context.Context, types.Event) {
		_ = Register(reg, &searchService{recorder("search", j)}, "app.startup")
	}
	require.NoError(t, Register(reg, db, "app.startup"))

	ctx := context.Background()

	// The running pass works on its snapshot: search joins for the next
	// dispatch, not this one.
	require.NoError(t, reg.Dispatch(ctx, "app.startup"))
	testutil.AssertEntriesEqual(t, []string{"database:app.startup"}, j.Entries())

	db.OnHandle = nil
	require.NoError(t, reg.Dispatch(ctx, "app.startup"))
	testutil.AssertEntriesEqual(t, []string{
		"database:app.startup",
		"database:app.startup",
		"search:app.startup",
	}, j.Entries())
}

func TestDispatchHandlerUnregistersLaterService(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	db := &databaseService{recorder("database", j)}
	db.OnHandle = func(context.Context, types.Event) {
		_ = Unregister[*mailerService](reg)
	}
	require.NoError(t, Register(reg, db, "app.shutdown"))
	require.NoError(t, Register(reg, &mailerService{recorder("mailer", j)}, "app.shutdown"))

	// The snapshot taken at the start of the pass still includes the
	// mailer, so it is delivered once; afterwards it is gone.
	require.NoError(t, reg.Dispatch(context.Background(), "app.shutdown"))
	testutil.AssertEntriesEqual(t, []string{
		"database:app.shutdown",
		"mailer:app.shutdown",
	}, j.Entries())

	assert.False(t, IsRegistered[*mailerService](reg))

	require.NoError(t, reg.Dispatch(context.Background(), "app.shutdown"))
	assert.Equal(t, 3, j.Len(), "second pass reaches only the database")
}

func TestUnregisterInstanceWithLazyRegistration(t *testing.T) {
	reg := New()
	j := &testutil.Journal{}

	resolved := &analyticsService{recorder("analytics", j)}
	require.NoError(t, RegisterLazy(reg, func() *analyticsService { return resolved },
		"app.signin", "app.signin"))

	// Unresolved lazy registrations hold no instance yet.
	assert.False(t, reg.IsRegisteredInstance(resolved))
	err := reg.UnregisterInstance(resolved)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotRegistered))

	require.NoError(t, reg.Dispatch(context.Background(), "app.signin"))

	// After materialization the memoized instance is matchable.
	assert.True(t, reg.IsRegisteredInstance(resolved))
	require.NoError(t, reg.UnregisterInstance(resolved))
	assert.False(t, IsRegistered[*analyticsService](reg))
}

func BenchmarkDispatch(b *testing.B) {
	reg := New()

	// Counter services, not recording ones: journals would grow with b.N.
	_ = Register(reg, &cacheService{}, "app.refresh")
	_ = Register(reg, &authService{}, "app.refresh")
	_ = Register(reg, &metricsService{}, "app.refresh")
	_ = Register(reg, &sessionService{}, "app.startup")

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.Dispatch(ctx, "app.refresh")
	}
}
