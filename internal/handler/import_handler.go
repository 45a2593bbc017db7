package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/beaglesim/flightlog-backend-go/internal/extract"
	"github.com/beaglesim/flightlog-backend-go/internal/models"
	"github.com/beaglesim/flightlog-backend-go/internal/service"
	"github.com/beaglesim/flightlog-backend-go/pkg/response"
)

// ImportHandler handles coordinate import and validation requests
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// ImportRequest is the body of POST /api/v1/coordinates/import.
type ImportRequest struct {
	Path string `json:"path" binding:"required"`
}

// ValidateRequest is the body of POST /api/v1/coordinates/validate.
type ValidateRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// coordinateResponse reports the normalized pair plus whether the
// plausibility heuristic swapped it, with the collected notices.
type coordinateResponse struct {
	Coordinates models.CoordinatePair `json:"coordinates"`
	Swapped     bool                  `json:"swapped"`
	Events      []models.Event        `json:"events"`
}

// Import handles POST /api/v1/coordinates/import
func (h *ImportHandler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "path is required")
		return
	}

	var events []models.Event
	pair, swapped, err := h.importService.ImportCoordinates(req.Path, func(e models.Event) {
		events = append(events, e)
	})
	if errors.Is(err, extract.ErrNoCoordinates) {
		// Expected absence, reported as a warning rather than a failure.
		response.NotFound(c, "No suitable coordinates found")
		return
	}
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, coordinateResponse{Coordinates: pair, Swapped: swapped, Events: events})
}

// Validate handles POST /api/v1/coordinates/validate
func (h *ImportHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "latitude and longitude are required")
		return
	}

	var events []models.Event
	pair, swapped, err := h.importService.ValidateLaunch(*req.Latitude, *req.Longitude, func(e models.Event) {
		events = append(events, e)
	})
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, coordinateResponse{Coordinates: pair, Swapped: swapped, Events: events})
}
