package rpc

import (
	"context"

	"github.com/signalsfoundry/geo-distance/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// RequestIDMetadataKey carries the request id in inbound and outbound
// metadata. It matches the HTTP header name.
const RequestIDMetadataKey = "x-request-id"

// RequestIDUnaryServerInterceptor ensures a request_id is present on the
// context, sourcing it from inbound metadata if provided, and attaches a
// per-request logger annotated with request_id and method. The id is echoed
// back in the response header.
func RequestIDUnaryServerInterceptor(base logging.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = logging.Noop()
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if incoming := firstHeader(md, RequestIDMetadataKey); incoming != "" {
				ctx = logging.ContextWithRequestID(ctx, incoming)
			}
		}

		ctx, reqLog := logging.WithRequestLogger(ctx, base.With(logging.String("rpc_method", info.FullMethod)))
		ctx = logging.ContextWithLogger(ctx, reqLog)

		// Best effort: there is no transport stream when invoked directly.
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDMetadataKey, logging.RequestIDFromContext(ctx)))

		return handler(ctx, req)
	}
}

// RecoveryUnaryServerInterceptor turns handler panics into Internal errors so
// a single bad call cannot take the server down.
func RecoveryUnaryServerInterceptor(base logging.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = logging.Noop()
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				base.Error(ctx, "panic in gRPC handler",
					logging.String("rpc_method", info.FullMethod),
					logging.Any("panic", r),
				)
				err = ToStatusError(errPanic)
				resp = nil
			}
		}()
		return handler(ctx, req)
	}
}

func firstHeader(md metadata.MD, key string) string {
	if md == nil {
		return ""
	}
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
