package middlewares

import (
	"hicm-service/internal/pkg/constvars"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const serverTracerName = "hicm-service/http"

// Tracing opens a server span per request, continuing any trace context the
// caller propagated.
func (m *Middlewares) Tracing(next http.Handler) http.Handler {
	tracer := otel.Tracer(serverTracerName)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

		ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
				attribute.String(constvars.LoggingRequestIDKey, requestID),
			),
		)
		defer span.End()

		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.statusCode))
		if rec.statusCode >= constvars.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.statusCode))
		}
	})
}
