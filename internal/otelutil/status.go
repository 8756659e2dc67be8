// Package otelutil holds small helpers shared by the traced operations.
package otelutil

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// EndWithStatus records err on span, if any, and ends it.
//
// A nil error leaves the span status unset. Otherwise the span takes status
// Error with the error message as description.
func EndWithStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
