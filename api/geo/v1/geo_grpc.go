package geov1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	Geo_ServiceName                = "geo.v1.Geo"
	Geo_GetDistance_FullMethodName = "/geo.v1.Geo/GetDistance"
)

// GeoClient is the client API for the Geo service.
type GeoClient interface {
	GetDistance(ctx context.Context, in *DistanceRequest, opts ...grpc.CallOption) (*DistanceReply, error)
}

type geoClient struct {
	cc grpc.ClientConnInterface
}

// NewGeoClient returns a client speaking protobuf by default. Pass
// grpc.CallContentSubtype(CodecName) to use the JSON rendering instead.
func NewGeoClient(cc grpc.ClientConnInterface) GeoClient {
	return &geoClient{cc}
}

func (c *geoClient) GetDistance(ctx context.Context, in *DistanceRequest, opts ...grpc.CallOption) (*DistanceReply, error) {
	out := new(DistanceReply)
	if err := c.cc.Invoke(ctx, Geo_GetDistance_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GeoServer is the server API for the Geo service. Implementations should
// embed UnimplementedGeoServer.
type GeoServer interface {
	GetDistance(context.Context, *DistanceRequest) (*DistanceReply, error)
	mustEmbedUnimplementedGeoServer()
}

// UnimplementedGeoServer must be embedded by GeoServer implementations.
type UnimplementedGeoServer struct{}

func (UnimplementedGeoServer) GetDistance(context.Context, *DistanceRequest) (*DistanceReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDistance not implemented")
}
func (UnimplementedGeoServer) mustEmbedUnimplementedGeoServer() {}

// RegisterGeoServer registers srv on s.
func RegisterGeoServer(s grpc.ServiceRegistrar, srv GeoServer) {
	s.RegisterService(&Geo_ServiceDesc, srv)
}

func _Geo_GetDistance_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DistanceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GeoServer).GetDistance(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Geo_GetDistance_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GeoServer).GetDistance(ctx, req.(*DistanceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Geo_ServiceDesc is the grpc.ServiceDesc for the Geo service.
var Geo_ServiceDesc = grpc.ServiceDesc{
	ServiceName: Geo_ServiceName,
	HandlerType: (*GeoServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetDistance",
			Handler:    _Geo_GetDistance_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/geo/v1/geo.proto",
}
