package registry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/arthur-debert/herald/pkg/errors"
	"github.com/arthur-debert/herald/pkg/tracing"
	"github.com/arthur-debert/herald/pkg/types"
)

// Dispatch delivers evt to every registration whose event list contains
// it, in registration order, waiting for each handler to return before
// invoking the next.
//
// The pass runs over a snapshot taken at the start: handlers may re-enter
// the registry to register or unregister services, and those changes only
// influence later passes. An unresolved lazy registration is skipped until
// its trigger event arrives; the trigger materializes it, after which it
// behaves like an eager registration for the rest of its event list.
//
// The first handler error aborts the pass: remaining registrations are
// skipped and the error is returned wrapped with the failing service and
// event. Cancellation of ctx is honored between handlers; a handler that
// never returns stalls the pass.
//
// Concurrent Dispatch calls on one registry are not supported; callers
// serialize their dispatches.
func (r *Registry) Dispatch(ctx context.Context, evt types.Event) error {
	dispatchID := uuid.New().String()
	logger := r.logger.With().
		Str("event", evt.String()).
		Str("dispatch_id", dispatchID).
		Logger()

	r.mu.RLock()
	snapshot := make([]*record, len(r.records))
	copy(snapshot, r.records)
	r.mu.RUnlock()

	ctx, span := r.tracer.Start(ctx, tracing.SpanDispatchPass,
		trace.WithAttributes(
			attribute.String(tracing.AttrDispatchID, dispatchID),
			attribute.String(tracing.AttrEvent, evt.String()),
			attribute.Int(tracing.AttrRegistrations, len(snapshot)),
		))
	defer span.End()
	defer r.publishChange(ChangeDispatched, "", evt)

	logger.Debug().Int("registrations", len(snapshot)).Msg("Dispatch pass started")
	start := time.Now()

	delivered := 0
	for _, rec := range snapshot {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "dispatch cancelled")
			return errors.Wrapf(err, errors.ErrDispatchFailed, "dispatch of %s cancelled", evt).
				WithDetail("event", evt.String())
		}

		if !rec.key.HasEvent(evt) {
			continue
		}

		svc, materialized, err := r.resolve(rec, evt)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "factory returned nil")
			return err
		}
		if svc == nil {
			logger.Trace().Str("service", rec.key.TypeName()).Msg("Lazy registration awaiting trigger, skipped")
			continue
		}
		if materialized {
			logger.Debug().Str("service", rec.key.TypeName()).Msg("Lazy service materialized")
			r.publishChange(ChangeResolved, rec.key.TypeName(), evt)
		}

		if err := r.deliver(ctx, rec, svc, evt, materialized, logger); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "handler failed")
			return err
		}
		delivered++
	}

	span.SetAttributes(attribute.Int(tracing.AttrDelivered, delivered))
	span.SetStatus(codes.Ok, "")
	logger.Debug().
		Int("delivered", delivered).
		Dur("duration", time.Since(start)).
		Msg("Dispatch pass completed")
	return nil
}

// resolve returns the instance to invoke for rec, materializing a lazy
// registration when evt is its trigger. A nil instance with nil error
// means the registration is lazy and still awaiting its trigger.
//
// The factory is user code and may re-enter the registry, so it runs
// outside the lock. Dispatch passes are serialized by contract, which is
// what keeps the factory from ever running twice.
func (r *Registry) resolve(rec *record, evt types.Event) (types.EventService, bool, error) {
	r.mu.Lock()
	if !rec.lazy || rec.resolved {
		svc := rec.service
		r.mu.Unlock()
		return svc, false, nil
	}
	if evt != rec.trigger {
		r.mu.Unlock()
		return nil, false, nil
	}
	r.mu.Unlock()

	svc := rec.factory()
	if isNilService(svc) {
		return nil, false, errors.Newf(errors.ErrInvalidRegistration,
			"factory for %s returned nil", rec.key.TypeName()).
			WithDetail("service", rec.key.TypeName()).
			WithDetail("event", evt.String())
	}

	r.mu.Lock()
	rec.service = svc
	rec.resolved = true
	r.mu.Unlock()
	return svc, true, nil
}

// deliver invokes one handler under its own span.
func (r *Registry) deliver(ctx context.Context, rec *record, svc types.EventService, evt types.Event, materialized bool, logger zerolog.Logger) error {
	name := rec.key.TypeName()

	ctx, span := r.tracer.Start(ctx, tracing.SpanDeliverPrefix+name,
		trace.WithAttributes(
			attribute.String(tracing.AttrService, name),
			attribute.Bool(tracing.AttrServiceLazy, rec.lazy),
			attribute.Bool(tracing.AttrServiceMaterialized, materialized),
		))
	defer span.End()

	logger.Trace().Str("service", name).Msg("Invoking handler")
	if err := svc.HandleEvent(ctx, evt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
		logger.Debug().Err(err).Str("service", name).Msg("Handler failed, aborting pass")
		return errors.Wrapf(err, errors.ErrDispatchFailed, "dispatching %s to %s", evt, name).
			WithDetail("service", name).
			WithDetail("event", evt.String())
	}
	return nil
}
