// Package httpapi exposes the distance use case over HTTP/JSON using gin.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/signalsfoundry/geo-distance/core"
	"github.com/signalsfoundry/geo-distance/internal/distance"
	"github.com/signalsfoundry/geo-distance/internal/logging"
	"github.com/signalsfoundry/geo-distance/model"
)

// GRPCHint is served on GET / for clients that land on the HTTP port while
// looking for the gRPC endpoint.
const GRPCHint = "Communication with gRPC endpoints must be made through a gRPC client."

// GeoHandler handles the HTTP distance endpoints.
type GeoHandler struct {
	distances *distance.Service
	log       logging.Logger
}

// NewGeoHandler creates a new GeoHandler.
func NewGeoHandler(distances *distance.Service, log logging.Logger) *GeoHandler {
	if log == nil {
		log = logging.Noop()
	}
	return &GeoHandler{distances: distances, log: log}
}

// RegisterRoutes registers the distance, hint and health routes.
func (h *GeoHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)

	geo := r.Group("/geo")
	{
		geo.POST("/distance", h.GetDistance)
	}
}

// GetDistance computes the great-circle distance between two points.
func (h *GeoHandler) GetDistance(c *gin.Context) {
	var req model.DistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "method" {
			h.writeError(c, fmt.Errorf("%w: method must be a string, got %s", distance.ErrInvalidMethod, typeErr.Value))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body: " + err.Error()})
		return
	}

	reply, err := h.distances.Calculate(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// Root tells HTTP visitors how to reach the gRPC service.
func (h *GeoHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, GRPCHint)
}

// Healthz reports liveness.
func (h *GeoHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *GeoHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, distance.ErrInvalidMethod),
		errors.Is(err, core.ErrUnknownMethod),
		errors.Is(err, distance.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "InvalidArgument"})
	default:
		h.requestLogger(c).Error(c.Request.Context(), "distance calculation failed", logging.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "Internal"})
	}
}

func (h *GeoHandler) requestLogger(c *gin.Context) logging.Logger {
	if l := logging.LoggerFromContext(c.Request.Context()); l != nil {
		return l
	}
	return h.log
}
