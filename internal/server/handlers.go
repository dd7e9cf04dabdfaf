package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/compass/internal/repository"
	"github.com/UnknownOlympus/compass/internal/viewport"
	"github.com/gin-gonic/gin"
)

// APIError is a structured error response.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errBadDevice = errors.New("lat and lng must be given together and be valid coordinates")

type refreshRequest struct {
	Device *viewport.GeoPoint `json:"device"`
}

type viewportRequest struct {
	Points  []viewport.GeoPoint `json:"points"`
	Padding *float64            `json:"padding"`
}

func (s *Server) shipmentMap(c *gin.Context) {
	device, err := deviceFromQuery(c)
	if err != nil {
		abort(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	view, err := s.maps.Build(c.Request.Context(), c.Param("id"), device)
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (s *Server) refreshShipmentMap(c *gin.Context) {
	var req refreshRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
			return
		}
	}
	if req.Device != nil && !validPoint(*req.Device) {
		abort(c, http.StatusBadRequest, "bad_request", errBadDevice.Error())
		return
	}

	view, err := s.maps.Refresh(c.Request.Context(), c.Param("id"), req.Device)
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (s *Server) fitViewport(c *gin.Context) {
	var req viewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	region, err := s.maps.Fit(req.Points, req.Padding)
	if err != nil {
		s.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, region)
}

// mapError translates service errors into responses.
func (s *Server) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrShipmentNotFound):
		abort(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, viewport.ErrInvalidArgument):
		abort(c, http.StatusBadRequest, "invalid_argument", err.Error())
	default:
		s.log.ErrorContext(c.Request.Context(), "Request failed", "path", c.Request.URL.Path, "error", err)
		abort(c, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, APIError{Status: status, Code: code, Message: message})
}

// deviceFromQuery reads the optional lat/lng query pair.
func deviceFromQuery(c *gin.Context) (*viewport.GeoPoint, error) {
	rawLat, hasLat := c.GetQuery("lat")
	rawLng, hasLng := c.GetQuery("lng")
	if !hasLat && !hasLng {
		return nil, nil
	}
	if hasLat != hasLng {
		return nil, errBadDevice
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, errBadDevice
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, errBadDevice
	}

	point := viewport.GeoPoint{Latitude: lat, Longitude: lng}
	if !validPoint(point) {
		return nil, errBadDevice
	}

	return &point, nil
}

func validPoint(p viewport.GeoPoint) bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}
