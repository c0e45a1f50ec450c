// Package grpc runs the backend's gRPC endpoint. It serves the standard
// health service the client's network monitor probes, behind a bearer-token
// interceptor for every other method.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/mobilecore/internal/logging"
	"github.com/dmitrijs2005/mobilecore/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Authenticator validates access tokens.
type Authenticator interface {
	Authenticate(token string) (*auth.Claims, error)
}

type GRPCServer struct {
	address string
	logger  logging.Logger
	users   Authenticator
	health  *health.Server
}

func NewGRPCServer(a string, l logging.Logger, users Authenticator) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  logging.OrNop(l).With("module", "grpc_server"),
		users:   users,
		health:  health.NewServer(),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
