package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/patric-chuzhbe/userdir/internal/logger"
)

// UnaryLoggingInterceptor logs every unary call with its method, duration
// and resulting code. Server-side failures are logged at error level.
func UnaryLoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		start := time.Now()

		resp, err = handler(ctx, req)

		st, _ := status.FromError(err)
		fields := []interface{}{
			"method", info.FullMethod,
			"duration", time.Since(start),
			"code", st.Code().String(),
		}

		switch st.Code() {
		case codes.OK:
			logger.Log.Infow("gRPC request", fields...)
		case codes.Internal, codes.Unavailable, codes.Unknown:
			logger.Log.Errorw("gRPC request failed", append(fields, "message", st.Message())...)
		default:
			logger.Log.Warnw("gRPC request rejected", append(fields, "message", st.Message())...)
		}

		return resp, err
	}
}
