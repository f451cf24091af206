package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/storefront/internal/pkg/requestid"
)

// RequestIDServerInterceptor reads x-request-id from the incoming metadata,
// generating one when the caller sent none, and stores it in the handler
// context so logs carry it.
func RequestIDServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		id := GetMetadataValue(ctx, requestid.MetadataKey)
		if id == "" {
			id = requestid.New()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestid.MetadataKey, id))
		return handler(requestid.NewContext(ctx, id), req)
	}
}

// GetMetadataValue returns the first value for key in the incoming
// metadata, or "".
func GetMetadataValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
