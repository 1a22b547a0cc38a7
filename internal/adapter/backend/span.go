package backend

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"casedesk/internal/domain"
	"casedesk/internal/infra/tracer"
)

func startSpan(ctx context.Context, name, transport, sessionID string) (context.Context, trace.Span) {
	ctx, span := tracer.StartSpan(ctx, name)
	span.SetAttributes(
		tracer.StringAttr("backend.transport", transport),
		tracer.StringAttr("session.id", sessionID),
	)
	return ctx, span
}

// endSpan records the outcome on span and returns err unchanged.
func endSpan(span trace.Span, resp *domain.Response, err error) error {
	if err != nil {
		tracer.RecordError(span, err)
		return err
	}
	if resp != nil {
		span.SetAttributes(tracer.StringAttr("response.type", string(resp.Type)))
	}
	tracer.SetOK(span)
	return nil
}
