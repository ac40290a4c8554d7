package rpc

import (
	geov1 "github.com/signalsfoundry/geo-distance/api/geo/v1"
	"github.com/signalsfoundry/geo-distance/internal/logging"
	"github.com/signalsfoundry/geo-distance/internal/observability"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewServer builds a gRPC server with the Geo and health services registered
// and the standard interceptor chain installed. collector may be nil.
func NewServer(svc *GeoService, log logging.Logger, collector *observability.Collector, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	if log == nil {
		log = logging.Noop()
	}

	interceptors := []grpc.UnaryServerInterceptor{
		RecoveryUnaryServerInterceptor(log),
		RequestIDUnaryServerInterceptor(log),
		TracingUnaryServerInterceptor(),
	}
	if collector != nil {
		interceptors = append(interceptors, collector.UnaryServerInterceptor())
	}

	serverOpts := append([]grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(interceptors...),
	}, opts...)
	server := grpc.NewServer(serverOpts...)

	geov1.RegisterGeoServer(server, svc)

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(geov1.Geo_ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthSrv)

	return server, healthSrv
}
