package geov1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
	grpcproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/grpc/mem"
)

// CodecName is the gRPC content-subtype of the JSON rendering of the Geo
// messages ("application/grpc+json").
const CodecName = "json"

// ProtoCodecName is the default gRPC content-subtype ("application/grpc" or
// "application/grpc+proto"), carrying the protobuf encoding of geo.proto.
const ProtoCodecName = grpcproto.Name

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return CodecName }

// protoCodec encodes the Geo messages with their own wire methods and hands
// every other message (health checks, for one) to the stock proto codec.
type protoCodec struct {
	next encoding.CodecV2
}

func (c protoCodec) Marshal(v any) (mem.BufferSlice, error) {
	if m, ok := v.(protoMessage); ok {
		b, err := m.MarshalProto()
		if err != nil {
			return nil, err
		}
		return mem.BufferSlice{mem.SliceBuffer(b)}, nil
	}
	if c.next == nil {
		return nil, fmt.Errorf("proto: failed to marshal, message is %T", v)
	}
	return c.next.Marshal(v)
}

func (c protoCodec) Unmarshal(data mem.BufferSlice, v any) error {
	if m, ok := v.(protoMessage); ok {
		return m.UnmarshalProto(data.Materialize())
	}
	if c.next == nil {
		return fmt.Errorf("proto: failed to unmarshal, message is %T", v)
	}
	return c.next.Unmarshal(data, v)
}

func (protoCodec) Name() string { return ProtoCodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
	// grpcproto's init has already run: this package imports it.
	encoding.RegisterCodecV2(protoCodec{next: encoding.GetCodecV2(ProtoCodecName)})
}
