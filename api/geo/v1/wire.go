package geov1

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers from geo.proto.
const (
	pointLatitudeField  protowire.Number = 1
	pointLongitudeField protowire.Number = 2

	requestFromField   protowire.Number = 1
	requestToField     protowire.Number = 2
	requestMethodField protowire.Number = 3

	replyResultField protowire.Number = 1
)

// CalculationMethod enum numbers from geo.proto.
var (
	methodNumbers = map[string]protowire.Number{
		strings.ToLower(MethodCosine):    0,
		strings.ToLower(MethodHaversine): 1,
	}
	methodNames = map[uint64]string{
		0: MethodCosine,
		1: MethodHaversine,
	}
)

// protoMessage is implemented by the Geo messages so the proto codec can
// encode them without generated code.
type protoMessage interface {
	MarshalProto() ([]byte, error)
	UnmarshalProto([]byte) error
}

// MarshalProto encodes p in protobuf binary form. Zero coordinates are
// omitted, as proto3 does for implicit-presence fields.
func (x *Point) MarshalProto() ([]byte, error) {
	return x.appendProto(nil), nil
}

func (x *Point) appendProto(b []byte) []byte {
	if x == nil {
		return b
	}
	b = appendDouble(b, pointLatitudeField, x.Latitude)
	b = appendDouble(b, pointLongitudeField, x.Longitude)
	return b
}

// UnmarshalProto decodes protobuf binary data into p. Unknown fields are
// skipped.
func (x *Point) UnmarshalProto(b []byte) error {
	*x = Point{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == pointLatitudeField && typ == protowire.Fixed64Type:
			return consumeDouble(b, &x.Latitude)
		case num == pointLongitudeField && typ == protowire.Fixed64Type:
			return consumeDouble(b, &x.Longitude)
		}
		return -1, nil
	})
}

// MarshalProto encodes r in protobuf binary form. Method names are written as
// CalculationMethod enum numbers; a decimal string is written as that number.
func (x *DistanceRequest) MarshalProto() ([]byte, error) {
	var b []byte
	if x == nil {
		return b, nil
	}
	if x.From != nil {
		b = protowire.AppendTag(b, requestFromField, protowire.BytesType)
		b = protowire.AppendBytes(b, x.From.appendProto(nil))
	}
	if x.To != nil {
		b = protowire.AppendTag(b, requestToField, protowire.BytesType)
		b = protowire.AppendBytes(b, x.To.appendProto(nil))
	}
	if x.Method != nil {
		num, err := methodNumber(*x.Method)
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, requestMethodField, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(num)))
	}
	return b, nil
}

// UnmarshalProto decodes protobuf binary data into r. Enum numbers outside
// CalculationMethod are kept as their decimal text so validation can reject
// them.
func (x *DistanceRequest) UnmarshalProto(b []byte) error {
	*x = DistanceRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case (num == requestFromField || num == requestToField) && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, protowire.ParseError(n)
			}
			p := &Point{}
			if err := p.UnmarshalProto(v); err != nil {
				return -1, err
			}
			if num == requestFromField {
				x.From = p
			} else {
				x.To = p
			}
			return n, nil

		case num == requestMethodField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return n, protowire.ParseError(n)
			}
			name, ok := methodNames[v]
			if !ok {
				name = strconv.FormatInt(int64(int32(v)), 10)
			}
			x.Method = &name
			return n, nil
		}
		return -1, nil
	})
}

// MarshalProto encodes r in protobuf binary form.
func (x *DistanceReply) MarshalProto() ([]byte, error) {
	if x == nil {
		return nil, nil
	}
	return appendDouble(nil, replyResultField, x.Result), nil
}

// UnmarshalProto decodes protobuf binary data into r.
func (x *DistanceReply) UnmarshalProto(b []byte) error {
	*x = DistanceReply{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == replyResultField && typ == protowire.Fixed64Type {
			return consumeDouble(b, &x.Result)
		}
		return -1, nil
	})
}

func methodNumber(name string) (protowire.Number, error) {
	if num, ok := methodNumbers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return num, nil
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(name), 10, 32); err == nil {
		return protowire.Number(v), nil
	}
	return 0, fmt.Errorf("method %q has no CalculationMethod enum number", name)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 && !math.Signbit(v) {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func consumeDouble(b []byte, dst *float64) (int, error) {
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return n, protowire.ParseError(n)
	}
	*dst = math.Float64frombits(v)
	return n, nil
}

// consumeFields walks the fields of b. field returns the number of bytes it
// consumed, or -1 with a nil error to have the field skipped.
func consumeFields(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
		}
		b = b[n:]
	}
	return nil
}
