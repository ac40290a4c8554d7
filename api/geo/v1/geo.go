// Package geov1 is the gRPC contract of the Geo service described in
// geo.proto. Messages travel as protobuf on the default content-subtype and
// as JSON on the "json" subtype; both codecs are registered by this package.
package geov1

// Point is a geographic position in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (x *Point) GetLatitude() float64 {
	if x == nil {
		return 0
	}
	return x.Latitude
}

func (x *Point) GetLongitude() float64 {
	if x == nil {
		return 0
	}
	return x.Longitude
}

// Method names accepted in DistanceRequest.Method.
const (
	MethodCosine    = "Cosine"
	MethodHaversine = "Haversine"
)

// DistanceRequest asks for the distance between From and To. Method is
// optional.
type DistanceRequest struct {
	From   *Point  `json:"from,omitempty"`
	To     *Point  `json:"to,omitempty"`
	Method *string `json:"method,omitempty"`
}

func (x *DistanceRequest) GetFrom() *Point {
	if x == nil {
		return nil
	}
	return x.From
}

func (x *DistanceRequest) GetTo() *Point {
	if x == nil {
		return nil
	}
	return x.To
}

func (x *DistanceRequest) GetMethod() string {
	if x == nil || x.Method == nil {
		return ""
	}
	return *x.Method
}

// HasMethod reports whether the optional method field is set.
func (x *DistanceRequest) HasMethod() bool {
	return x != nil && x.Method != nil
}

// DistanceReply carries the distance in kilometres.
type DistanceReply struct {
	Result float64 `json:"result"`
}

func (x *DistanceReply) GetResult() float64 {
	if x == nil {
		return 0
	}
	return x.Result
}
