package tracing

// Span attribute keys for dispatch tracing.
// These constants define the semantic conventions for span attributes
// emitted by the registry.
const (
	// Dispatch pass attributes
	AttrDispatchID    = "dispatch.id"
	AttrEvent         = "dispatch.event"
	AttrRegistrations = "dispatch.registrations"
	AttrDelivered     = "dispatch.delivered"

	// Service attributes
	AttrService             = "service.type"
	AttrServiceLazy         = "service.lazy"
	AttrServiceMaterialized = "service.materialized"

	// Error attributes
	AttrErrorMessage = "error.message"
)

// Span names for consistent naming.
const (
	// SpanDispatchPass covers one full dispatch pass over the registry.
	SpanDispatchPass = "dispatch.pass"

	// SpanDeliverPrefix prefixes per-service delivery spans; the service
	// type name is appended (e.g. "dispatch.deliver.*demo.CacheService").
	SpanDeliverPrefix = "dispatch.deliver."
)
