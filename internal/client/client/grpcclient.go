package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mobilecore/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// DefaultGRPCExcludedMethods are never treated as session expiry.
var DefaultGRPCExcludedMethods = []string{"/grpc.health.v1.Health/"}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationHeaderName)
	if token != "" {
		md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

// UnaryAuthInterceptor is the gRPC form of BearerToken plus
// LogoutOnUnauthorized: it attaches the bearer token as metadata and logs
// out on codes.Unauthenticated unless the method matches excludedMethods.
func UnaryAuthInterceptor(src TokenSource, l Logouter, excludedMethods []string) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {

		ctx = withAccessToken(ctx, src.Token())

		err := invoker(ctx, method, req, reply, cc, opts...)
		if err == nil {
			return nil
		}

		st, ok := status.FromError(err)
		if !ok || st.Code() != codes.Unauthenticated {
			return err
		}
		if l != nil && !isExcluded(method, excludedMethods) {
			l.Logout(ctx)
		}
		return err
	}
}

// NewGRPCConn dials addr without TLS and installs UnaryAuthInterceptor.
func NewGRPCConn(addr string, src TokenSource, l Logouter) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(UnaryAuthInterceptor(src, l, DefaultGRPCExcludedMethods)),
	)
}

// MapGRPCError converts gRPC status errors to the common sentinels.
func MapGRPCError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", common.ErrorUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
