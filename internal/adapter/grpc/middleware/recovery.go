package middleware

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	pkgerrors "early-access-api/pkg/errors"
	"early-access-api/pkg/logger"
)

// RecoveryInterceptor turns a panic in a unary handler into an
// *errors.InternalError, which gRPC reports as codes.Internal.
func RecoveryInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				fault := pkgerrors.NewInternalError("internal server error", fmt.Errorf("panic: %v", r))
				logger.WithContext(ctx, log).Error("panic recovered in gRPC handler",
					zap.String("method", info.FullMethod),
					zap.Error(fault),
					zap.Stack("stack"),
				)
				resp, err = nil, fault
			}
		}()

		return handler(ctx, req)
	}
}
