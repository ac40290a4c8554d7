package geov1

import (
	"testing"

	"google.golang.org/grpc/encoding"
)

func TestJSONCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	if c == nil {
		t.Fatalf("codec %q not registered", CodecName)
	}

	var req DistanceRequest
	if err := c.Unmarshal([]byte(`{"from":{"latitude":1,"longitude":2},"to":{"latitude":3,"longitude":4},"method":null}`), &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if req.HasMethod() {
		t.Fatalf("null method decoded as set: %q", req.GetMethod())
	}
	if req.GetFrom().GetLongitude() != 2 || req.GetTo().GetLatitude() != 3 {
		t.Fatalf("unexpected points: %+v %+v", req.GetFrom(), req.GetTo())
	}

	var nilReq *DistanceRequest
	if nilReq.GetFrom() != nil || nilReq.GetMethod() != "" || nilReq.HasMethod() {
		t.Fatalf("nil request getters must return zero values")
	}
}
