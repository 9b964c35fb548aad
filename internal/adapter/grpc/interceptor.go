package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDHeader is the metadata key carrying the request id in both directions
const RequestIDHeader = "x-request-id"

type contextKey string

const requestIDKey contextKey = "request_id"

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the authorization token from request metadata.
// If the token is missing or invalid, it returns status.Unauthenticated.
// If valid, it calls the handler with the original context.
func AuthInterceptor(validToken string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		if authHeaders[0] != validToken {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		return handler(ctx, req)
	}
}

// LoggingInterceptor tags every call with a request id, taken from the
// x-request-id metadata or generated, and puts a logger carrying it in the context.
// The id is echoed back as a response header.
func LoggingInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()

		var requestID string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(RequestIDHeader); len(ids) > 0 {
				requestID = ids[0]
			}
		}
		if requestID == "" {
			requestID = uuid.New().String()
		}
		// fails only outside a real server stream, e.g. when called directly in tests
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		ctx = context.WithValue(ctx, requestIDKey, requestID)
		loggerWithID := logger.With().Str("request_id", requestID).Logger()
		ctx = loggerWithID.WithContext(ctx)

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		code := status.Code(err)
		event := loggerWithID.Info()
		if code == codes.Internal || code == codes.Unknown {
			event = loggerWithID.Error().Err(err)
		} else if err != nil {
			event = loggerWithID.Warn().Err(err)
		}
		event.
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("request completed")

		return resp, err
	}
}

// RequestIDFromContext returns the id assigned by LoggingInterceptor, or ""
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
