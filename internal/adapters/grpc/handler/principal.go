package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// PrincipalMetadataKey は呼び出し元プリンシパルを運ぶメタデータキーです。
const PrincipalMetadataKey = "x-principal"

// principalFromContext は受信メタデータから呼び出し元を取り出します。
// キーが存在しないか空白のみの場合は Unauthenticated を返します。
func principalFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "principal metadata is required")
	}
	values := md.Get(PrincipalMetadataKey)
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return "", status.Error(codes.Unauthenticated, "principal metadata is required")
	}
	return values[0], nil
}
