package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/metrics"
	"github.com/ogurasousui/ems-grpc-clean-arch/internal/platform/ratelimiter"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	// RequestIDMetadataKey はレスポンスヘッダーに付与するリクエスト ID のキーです。
	RequestIDMetadataKey = "x-request-id"
	principalMetadataKey = "x-principal"
)

func principalOf(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(principalMetadataKey); len(values) > 0 {
		return values[0]
	}
	return ""
}

// loggingInterceptor はリクエスト ID を払い出し、呼び出し結果を記録します。
func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		requestID := uuid.NewString()
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDMetadataKey, requestID))

		resp, err := handler(ctx, req)

		code := status.Code(err)
		attrs := []any{
			"request_id", requestID,
			"method", info.FullMethod,
			"principal", principalOf(ctx),
			"code", code.String(),
			"duration", time.Since(start),
		}
		switch code {
		case codes.OK:
			logger.InfoContext(ctx, "rpc handled", attrs...)
		case codes.Internal, codes.Unknown:
			logger.ErrorContext(ctx, "rpc failed", append(attrs, "error", err)...)
		default:
			logger.WarnContext(ctx, "rpc rejected", append(attrs, "error", err)...)
		}
		return resp, err
	}
}

func metricsInterceptor(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.ObserveRequest(info.FullMethod, status.Code(err).String(), start)
		return resp, err
	}
}

// rateLimitInterceptor はプリンシパル単位でリクエストを制限します。
// ヘルスチェックとプリンシパルの無い呼び出しは制限の対象外で、後者はハンドラーが拒否します。
func rateLimitInterceptor(l *ratelimiter.KeyedLimiter, m *metrics.Metrics, now func() time.Time) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if isHealthMethod(info.FullMethod) {
			return handler(ctx, req)
		}
		principal := principalOf(ctx)
		if strings.TrimSpace(principal) == "" {
			return handler(ctx, req)
		}
		if !l.Allow(principal, now()) {
			m.IncrementRateLimited()
			return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
		}
		return handler(ctx, req)
	}
}

func isHealthMethod(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, "/grpc.health.v1.Health/")
}
