package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported alongside the overall ("") status.
const ServiceName = "storefront"

// HealthServer runs the gRPC side of the process: the standard health
// service plus reflection.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	log    *logrus.Logger
}

func NewHealthServer(logger *logrus.Logger) *HealthServer {
	server := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)

	reflection.Register(server)
	logger.Info("gRPC reflection service registered")

	s := &HealthServer{server: server, health: hs, log: logger}
	s.SetServing(false)
	return s
}

// Serve blocks until the server stops. A graceful stop is not an error.
func (s *HealthServer) Serve(lis net.Listener) error {
	s.log.Infof("gRPC server listening on %s", lis.Addr())
	if err := s.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	s.log.Info("gRPC server stopped serving.")
	return nil
}

func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	s.log.Infof("gRPC health status set to %s", status)
}

// GracefulStop reports NOT_SERVING to watchers before draining.
func (s *HealthServer) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
	s.log.Info("gRPC server gracefully stopped.")
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Watch pings db every interval and mirrors the result into the health
// status until ctx is done.
func (s *HealthServer) Watch(ctx context.Context, db Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := db.Ping(pingCtx)
		cancel()
		if ctx.Err() != nil {
			return
		}

		if ok := err == nil; ok != serving {
			if !ok {
				s.log.Errorf("gRPC health: database ping failed: %v", err)
			}
			serving = ok
			s.SetServing(ok)
		}
	}
}
