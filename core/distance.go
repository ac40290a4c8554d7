package core

import "math"

// DistanceByCosine returns the great-circle distance in kilometres between two
// positions given in degrees, using the spherical law of cosines.
func DistanceByCosine(latFrom, lonFrom, latTo, lonTo float64) float64 {
	// sin²+cos² does not always round to exactly 1.
	if latFrom == latTo && lonFrom == lonTo {
		return 0
	}

	phi1 := toRadians(latFrom)
	phi2 := toRadians(latTo)
	deltaLambda := longitudeDelta(lonFrom, lonTo)

	cosValue := math.Sin(phi1)*math.Sin(phi2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Cos(deltaLambda)

	// Rounding can push the value just outside acos' domain for coincident
	// or antipodal points.
	cosValue = clamp(cosValue, -1, 1)

	return EarthRadiusKm * math.Acos(cosValue)
}

// DistanceByHaversine returns the great-circle distance in kilometres between
// two positions given in degrees, using the haversine formula.
func DistanceByHaversine(latFrom, lonFrom, latTo, lonTo float64) float64 {
	phi1 := toRadians(latFrom)
	phi2 := toRadians(latTo)
	deltaPhi := phi2 - phi1
	deltaLambda := longitudeDelta(lonFrom, lonTo)

	h := square(math.Sin(deltaPhi/2)) +
		math.Cos(phi1)*math.Cos(phi2)*square(math.Sin(deltaLambda/2))
	h = clamp(h, 0, 1)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
