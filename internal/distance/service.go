// Package distance holds the transport-neutral distance use case shared by
// the HTTP and gRPC adapters.
package distance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/signalsfoundry/geo-distance/core"
	"github.com/signalsfoundry/geo-distance/internal/logging"
	"github.com/signalsfoundry/geo-distance/model"
)

var (
	// ErrInvalidMethod is returned when a request names a method outside the
	// supported enumeration and the policy is strict.
	ErrInvalidMethod = errors.New("invalid method")
	// ErrInvalidRequest is returned for requests that cannot be processed at all.
	ErrInvalidRequest = errors.New("invalid request")
)

// DefaultMethod is used when a request does not name a method.
const DefaultMethod = core.Cosine

// MethodPolicy decides how explicitly supplied but unknown methods are
// treated. The same policy applies to every transport.
type MethodPolicy string

const (
	// PolicyStrict rejects unknown methods with ErrInvalidMethod.
	PolicyStrict MethodPolicy = "strict"
	// PolicyLenient falls back to DefaultMethod and logs a warning.
	PolicyLenient MethodPolicy = "lenient"
)

// ParsePolicy maps a configuration string onto a MethodPolicy; empty means
// strict.
func ParsePolicy(s string) (MethodPolicy, error) {
	switch MethodPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyLenient:
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown method policy %q", s)
	}
}

// Recorder observes completed calculations. observability.Collector
// satisfies it.
type Recorder interface {
	ObserveCalculation(method string)
}

// Option customises a Service.
type Option func(*Service)

// WithPolicy sets the method policy.
func WithPolicy(p MethodPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// Service resolves the requested method, computes the distance and emits one
// log record per calculation. It holds no mutable state.
type Service struct {
	policy   MethodPolicy
	recorder Recorder
	log      logging.Logger
}

// NewService constructs a Service. A nil logger discards output.
func NewService(log logging.Logger, opts ...Option) *Service {
	if log == nil {
		log = logging.Noop()
	}
	s := &Service{policy: PolicyStrict, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the configured method policy.
func (s *Service) Policy() MethodPolicy {
	return s.policy
}

// ResolveMethod turns the optional method name of a request into a formula
// selector according to the policy.
func (s *Service) ResolveMethod(ctx context.Context, name *string) (core.CalculationMethod, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return DefaultMethod, nil
	}

	method, err := core.ParseMethod(*name)
	if err == nil {
		return method, nil
	}
	if s.policy == PolicyLenient {
		s.logger(ctx).Warn(ctx, "unknown method; falling back to default",
			logging.String("requested_method", *name),
			logging.String("method", DefaultMethod.String()),
		)
		return DefaultMethod, nil
	}
	return core.MethodUnspecified, fmt.Errorf("%w: %v", ErrInvalidMethod, err)
}

// Calculate computes the great-circle distance for req.
func (s *Service) Calculate(ctx context.Context, req model.DistanceRequest) (model.DistanceReply, error) {
	method, err := s.ResolveMethod(ctx, req.Method)
	if err != nil {
		return model.DistanceReply{}, err
	}

	result, err := core.Distance(method, req.From.Core(), req.To.Core())
	if err != nil {
		return model.DistanceReply{}, fmt.Errorf("%w: %v", ErrInvalidMethod, err)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return model.DistanceReply{}, fmt.Errorf("%w: non-finite coordinates", ErrInvalidRequest)
	}

	if s.recorder != nil {
		s.recorder.ObserveCalculation(method.String())
	}
	s.logger(ctx).Info(ctx, "distance computed",
		logging.String("method", method.String()),
		logging.Any("from", req.From),
		logging.Any("to", req.To),
		logging.Float64("result", result),
	)

	return model.DistanceReply{Result: result}, nil
}

func (s *Service) logger(ctx context.Context) logging.Logger {
	if l := logging.LoggerFromContext(ctx); l != nil {
		return l
	}
	return s.log
}
