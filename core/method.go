package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod is returned when a CalculationMethod outside the defined
// enumeration is requested.
var ErrUnknownMethod = errors.New("unknown calculation method")

// CalculationMethod selects the great-circle formula. The zero value means
// "unspecified"; callers decide what that defaults to.
type CalculationMethod int

const (
	MethodUnspecified CalculationMethod = iota
	Cosine
	Haversine
)

// Formula computes a distance in kilometres from two degree pairs.
type Formula func(latFrom, lonFrom, latTo, lonTo float64) float64

var formulas = map[CalculationMethod]Formula{
	Cosine:    DistanceByCosine,
	Haversine: DistanceByHaversine,
}

var methodNames = map[CalculationMethod]string{
	MethodUnspecified: "Unspecified",
	Cosine:            "Cosine",
	Haversine:         "Haversine",
}

// String returns the canonical name of the method.
func (m CalculationMethod) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("CalculationMethod(%d)", int(m))
}

// Valid reports whether m names a formula.
func (m CalculationMethod) Valid() bool {
	_, ok := formulas[m]
	return ok
}

// ParseMethod maps a method name onto a CalculationMethod. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseMethod(name string) (CalculationMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cosine":
		return Cosine, nil
	case "haversine":
		return Haversine, nil
	default:
		return MethodUnspecified, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// Distance computes the great-circle distance between from and to using the
// formula selected by method.
func Distance(method CalculationMethod, from, to Point) (float64, error) {
	formula, ok := formulas[method]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	return formula(from.Latitude, from.Longitude, to.Latitude, to.Longitude), nil
}
