package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKeyType struct{}
type traceDataKeyType struct{}

var (
	requestDataKey requestDataKeyType
	traceDataKey   traceDataKeyType
)

// RequestData is the authenticated identity attached to every request
// that passes the auth middleware.
type RequestData struct {
	TokenString  string
	RefreshToken string
	UserID       uuid.UUID
}

type TraceData struct {
	TraceID   string
	RequestID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey).(*TraceData); ok {
		return td
	}
	return nil
}

// Default returns a background context when given a nil one. Handy for
// clients that may be called before request wiring is complete.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
