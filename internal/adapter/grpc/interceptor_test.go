package grpc

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestAuthInterceptor(t *testing.T) {
	validToken := "test-token-123"
	interceptor := AuthInterceptor(validToken)

	tests := []struct {
		name           string
		ctx            context.Context
		handlerCalled  bool
		expectedCode   codes.Code
		expectedErrMsg string
	}{
		{
			name: "Valid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", validToken),
			),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
		{
			name: "Invalid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "wrong-token"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name:           "Missing Token",
			ctx:            context.Background(),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing metadata",
		},
		{
			name: "Missing Authorization Header",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("other-header", "value"),
			),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing authorization header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				handlerCalled = true
				return "success", nil
			}

			info := &grpc.UnaryServerInfo{
				FullMethod: "/squadarchitect.v1.SquadService/GetSquad",
			}

			resp, err := interceptor(tt.ctx, "test-request", info, handler)

			assert.Equal(t, tt.handlerCalled, handlerCalled, "handler called status mismatch")

			if tt.expectedCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "success", resp)
			} else {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok, "error should be a gRPC status")
				assert.Equal(t, tt.expectedCode, st.Code())
				assert.Contains(t, st.Message(), tt.expectedErrMsg)
			}
		})
	}
}

func TestLoggingInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/squadarchitect.v1.SquadService/Scout"}

	t.Run("Propagates incoming request id", func(t *testing.T) {
		var buf bytes.Buffer
		interceptor := LoggingInterceptor(zerolog.New(&buf))

		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-42"))
		var seenID string
		var ctxLogger *zerolog.Logger
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			seenID = RequestIDFromContext(ctx)
			ctxLogger = zerolog.Ctx(ctx)
			return "ok", nil
		}

		resp, err := interceptor(ctx, "req", info, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		assert.Equal(t, "req-42", seenID)
		require.NotNil(t, ctxLogger)
		assert.Contains(t, buf.String(), `"request_id":"req-42"`)
		assert.Contains(t, buf.String(), `"method":"/squadarchitect.v1.SquadService/Scout"`)
		assert.Contains(t, buf.String(), `"code":"OK"`)
	})

	t.Run("Generates request id", func(t *testing.T) {
		interceptor := LoggingInterceptor(zerolog.Nop())

		var seenID string
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			seenID = RequestIDFromContext(ctx)
			return nil, nil
		}

		_, err := interceptor(context.Background(), "req", info, handler)
		require.NoError(t, err)
		assert.Len(t, seenID, 36)
	})

	t.Run("Logs failures with status code", func(t *testing.T) {
		var buf bytes.Buffer
		interceptor := LoggingInterceptor(zerolog.New(&buf))

		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, status.Error(codes.NotFound, "roster not found")
		}

		_, err := interceptor(context.Background(), "req", info, handler)
		assert.Equal(t, codes.NotFound, status.Code(err))
		assert.Contains(t, buf.String(), `"level":"warn"`)
		assert.Contains(t, buf.String(), `"code":"NotFound"`)
	})

	t.Run("Logs internal errors at error level", func(t *testing.T) {
		var buf bytes.Buffer
		interceptor := LoggingInterceptor(zerolog.New(&buf))

		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, errors.New("boom")
		}

		_, err := interceptor(context.Background(), "req", info, handler)
		assert.Error(t, err)
		assert.Contains(t, buf.String(), `"level":"error"`)
		assert.Contains(t, buf.String(), `"code":"Unknown"`)
	})
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}
