package core

import "math"

// EarthRadiusKm is the mean Earth radius used for all great-circle
// calculations (kilometres). The Earth is modelled as a perfect sphere.
const EarthRadiusKm = 6371.0

// Point is a geographic position in decimal degrees. Values outside the
// usual [-90, 90] / [-180, 180] ranges are accepted as-is.
type Point struct {
	Latitude  float64
	Longitude float64
}

// toRadians divides first so finite inputs near math.MaxFloat64 stay finite.
func toRadians(degrees float64) float64 {
	return degrees / 180.0 * math.Pi
}

// longitudeDelta returns lonTo-lonFrom in radians. Each longitude is reduced
// modulo 360 first, which leaves the angle unchanged on the sphere and keeps
// the difference finite for any finite input.
func longitudeDelta(lonFrom, lonTo float64) float64 {
	return toRadians(math.Mod(lonTo, 360) - math.Mod(lonFrom, 360))
}

func square(x float64) float64 {
	return x * x
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
