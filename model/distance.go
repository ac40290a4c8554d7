package model

import "github.com/signalsfoundry/geo-distance/core"

// Point is the wire representation of a geographic position in decimal
// degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Core converts the wire point into the engine's value type.
func (p Point) Core() core.Point {
	return core.Point{Latitude: p.Latitude, Longitude: p.Longitude}
}

// DistanceRequest is the shape shared by the HTTP and gRPC adapters.
// Method is optional; nil or empty means "use the default".
type DistanceRequest struct {
	From   Point   `json:"from"`
	To     Point   `json:"to"`
	Method *string `json:"method,omitempty"`
}

// DistanceReply carries the computed distance in kilometres.
type DistanceReply struct {
	Result float64 `json:"result"`
}
