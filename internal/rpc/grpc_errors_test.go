package rpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/signalsfoundry/geo-distance/core"
	"github.com/signalsfoundry/geo-distance/internal/distance"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatusError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		code    codes.Code
		wantNil bool
	}{
		{name: "nil", err: nil, wantNil: true},
		{name: "status passthrough", err: status.Error(codes.PermissionDenied, "denied"), code: codes.PermissionDenied},
		{name: "invalid method", err: fmt.Errorf("%w: bad", distance.ErrInvalidMethod), code: codes.InvalidArgument},
		{name: "unknown method", err: core.ErrUnknownMethod, code: codes.InvalidArgument},
		{name: "invalid request", err: distance.ErrInvalidRequest, code: codes.InvalidArgument},
		{name: "fallback", err: errors.New("boom"), code: codes.Internal},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ToStatusError(tc.err)
			if tc.wantNil {
				if got != nil {
					t.Fatalf("ToStatusError(nil) = %v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("ToStatusError(%v) = nil, want error", tc.err)
			}
			if code := status.Code(got); code != tc.code {
				t.Fatalf("ToStatusError(%v) code = %v, want %v", tc.err, code, tc.code)
			}
		})
	}
}

func TestToStatusErrorCarriesFieldViolation(t *testing.T) {
	t.Parallel()

	st := status.Convert(ToStatusError(fmt.Errorf("%w: %q", distance.ErrInvalidMethod, "Vincenty")))
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("code = %v, want InvalidArgument", st.Code())
	}
	if field := badRequestField(st); field != "method" {
		t.Fatalf("field violation = %q, want method", field)
	}
}

func badRequestField(st *status.Status) string {
	for _, d := range st.Details() {
		if br, ok := d.(*errdetails.BadRequest); ok && len(br.GetFieldViolations()) > 0 {
			return br.GetFieldViolations()[0].GetField()
		}
	}
	return ""
}
