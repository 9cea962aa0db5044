package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const authorizationHeader = "authorization"

// UnaryServerInterceptor は authorization メタデータのトークンを検証し、利用者をコンテキストに格納します。
// トークンがない呼び出しはそのまま通し、利用者が必要かどうかはユースケースが判断します。
func UnaryServerInterceptor(v *Verifier, logger *zap.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		raw, ok := bearerToken(ctx)
		if !ok {
			return handler(ctx, req)
		}

		principal, err := v.Verify(raw)
		if err != nil {
			logger.Debug("rejected access token", zap.String("method", info.FullMethod), zap.Error(err))
			return nil, status.Error(codes.Unauthenticated, ErrInvalidToken.Error())
		}

		return handler(WithPrincipal(ctx, principal), req)
	}
}

func bearerToken(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	for _, value := range md.Get(authorizationHeader) {
		scheme, token, found := strings.Cut(strings.TrimSpace(value), " ")
		if !found || !strings.EqualFold(scheme, "bearer") {
			continue
		}
		if token = strings.TrimSpace(token); token != "" {
			return token, true
		}
	}
	return "", false
}
