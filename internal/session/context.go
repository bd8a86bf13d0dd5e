package session

import (
	"context"

	"google.golang.org/grpc/metadata"
)

type ctxKey struct{}

const MetadataKey = "x-session-id"

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IDFromContext returns the session id set by the HTTP middleware, falling back to
// incoming gRPC metadata.
func IDFromContext(ctx context.Context) string {
	if val, ok := ctx.Value(ctxKey{}).(string); ok {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(MetadataKey); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
