package interceptor

import (
	"context"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/patric-chuzhbe/userdir/internal/logger"
)

// UnaryRecoveryInterceptor answers a panicking handler with codes.Internal.
func UnaryRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		defer func() {
			if rvr := recover(); rvr != nil {
				logger.Log.Errorw("gRPC handler panicked",
					"method", info.FullMethod,
					"panic", rvr,
					"stack", string(debug.Stack()),
				)
				resp = nil
				err = status.Error(codes.Internal, "Internal server error")
			}
		}()

		return handler(ctx, req)
	}
}
