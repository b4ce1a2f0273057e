package observability

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const fileTracerName = "geocatalog/files"

type contextKey string

const (
	requestIDKey contextKey = "observability.request_id"
	routeKey     contextKey = "observability.route"
	layerKey     contextKey = "observability.layer"
)

// Span is the application-level tracing span contract.
type Span interface {
	End()
	RecordError(error)
}

type otelSpan struct {
	inner trace.Span
}

// StartFileSpan starts a span around one read of the data directory.
func StartFileSpan(ctx context.Context, operation, name string) (context.Context, Span) {
	operation = strings.TrimSpace(operation)
	if operation == "" {
		operation = "read"
	}
	attrs := []attribute.KeyValue{
		attribute.String("file.operation", operation),
	}
	if name = strings.TrimSpace(name); name != "" {
		attrs = append(attrs, attribute.String("file.name", name))
	}
	if layer, ok := LayerFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("geocatalog.layer", layer))
	}

	ctx, span := otel.Tracer(fileTracerName).Start(ctx, "file."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, otelSpan{inner: span}
}

// WithRequestMetadata enriches context and current span with request metadata.
func WithRequestMetadata(ctx context.Context, requestID, route string) context.Context {
	requestID = strings.TrimSpace(requestID)
	route = strings.TrimSpace(route)
	if requestID != "" {
		ctx = context.WithValue(ctx, requestIDKey, requestID)
	}
	if route != "" {
		ctx = context.WithValue(ctx, routeKey, route)
	}
	setSpanAttributes(ctx,
		stringAttr("request.id", requestID),
		stringAttr("http.route", route),
	)
	return ctx
}

// WithLayer records the layer a request operates on.
func WithLayer(ctx context.Context, layer string) context.Context {
	layer = strings.TrimSpace(layer)
	if layer == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, layerKey, layer)
	setSpanAttributes(ctx, stringAttr("geocatalog.layer", layer))
	return ctx
}

// RequestIDFromContext extracts request id.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, requestIDKey)
}

// RouteFromContext extracts normalized route path.
func RouteFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, routeKey)
}

// LayerFromContext extracts the requested layer id.
func LayerFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, layerKey)
}

func stringFromContext(ctx context.Context, key contextKey) (string, bool) {
	value, ok := ctx.Value(key).(string)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func stringAttr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

func setSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	kept := attrs[:0]
	for _, attr := range attrs {
		if attr.Value.AsString() != "" {
			kept = append(kept, attr)
		}
	}
	if len(kept) > 0 {
		span.SetAttributes(kept...)
	}
}

func (s otelSpan) End() {
	if s.inner == nil {
		return
	}
	s.inner.End()
}

func (s otelSpan) RecordError(err error) {
	if s.inner == nil || err == nil {
		return
	}
	s.inner.RecordError(err)
	s.inner.SetStatus(codes.Error, err.Error())
}
