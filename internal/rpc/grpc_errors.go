package rpc

import (
	"errors"

	"github.com/signalsfoundry/geo-distance/core"
	"github.com/signalsfoundry/geo-distance/internal/distance"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errPanic = errors.New("internal error")

// ToStatusError maps distance errors onto gRPC status codes. Invalid methods
// carry a BadRequest detail naming the offending field.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, distance.ErrInvalidMethod),
		errors.Is(err, core.ErrUnknownMethod):
		return withFieldViolation(codes.InvalidArgument, err, "method")

	case errors.Is(err, distance.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func withFieldViolation(code codes.Code, err error, field string) error {
	st := status.New(code, err.Error())
	detailed, derr := st.WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{
			{Field: field, Description: err.Error()},
		},
	})
	if derr != nil {
		return st.Err()
	}
	return detailed.Err()
}
