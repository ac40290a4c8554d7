// internal/rpc/geo_service.go
package rpc

import (
	"context"

	geov1 "github.com/signalsfoundry/geo-distance/api/geo/v1"
	"github.com/signalsfoundry/geo-distance/internal/distance"
	"github.com/signalsfoundry/geo-distance/internal/logging"
	"github.com/signalsfoundry/geo-distance/model"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GeoService implements the Geo gRPC server on top of distance.Service.
type GeoService struct {
	geov1.UnimplementedGeoServer

	distances *distance.Service
	log       logging.Logger
}

// NewGeoService constructs a GeoService bound to the shared distance service.
func NewGeoService(distances *distance.Service, log logging.Logger) *GeoService {
	if log == nil {
		log = logging.Noop()
	}
	return &GeoService{
		distances: distances,
		log:       log,
	}
}

// GetDistance computes the great-circle distance between the request points.
func (s *GeoService) GetDistance(
	ctx context.Context,
	in *geov1.DistanceRequest,
) (*geov1.DistanceReply, error) {
	if s.distances == nil {
		return nil, status.Error(codes.FailedPrecondition, "distance service is not configured")
	}
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	ctx, span := StartChildSpan(ctx, "distance.Calculate",
		attribute.String("geo.method", in.GetMethod()),
	)
	defer span.End()

	if logging.LoggerFromContext(ctx) == nil {
		ctx = logging.ContextWithLogger(ctx, s.log)
	}

	reply, err := s.distances.Calculate(ctx, RequestFromProto(in))
	if err != nil {
		span.RecordError(err)
		return nil, ToStatusError(err)
	}
	return ReplyToProto(reply), nil
}

// RequestFromProto converts the wire request into the shared request model.
// Missing points decode as the origin (0, 0), matching proto3 defaults.
func RequestFromProto(in *geov1.DistanceRequest) model.DistanceRequest {
	req := model.DistanceRequest{
		From: model.Point{Latitude: in.GetFrom().GetLatitude(), Longitude: in.GetFrom().GetLongitude()},
		To:   model.Point{Latitude: in.GetTo().GetLatitude(), Longitude: in.GetTo().GetLongitude()},
	}
	if in.HasMethod() {
		m := in.GetMethod()
		req.Method = &m
	}
	return req
}

// ReplyToProto converts a computed reply into its wire form.
func ReplyToProto(reply model.DistanceReply) *geov1.DistanceReply {
	return &geov1.DistanceReply{Result: reply.Result}
}
