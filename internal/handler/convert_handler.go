package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/beaglesim/flightlog-backend-go/internal/models"
	"github.com/beaglesim/flightlog-backend-go/internal/service"
	"github.com/beaglesim/flightlog-backend-go/pkg/response"
)

// ConvertHandler handles HTTP requests for log conversions
type ConvertHandler struct {
	convertService *service.ConvertService
}

// NewConvertHandler creates a new convert handler
func NewConvertHandler(convertService *service.ConvertService) *ConvertHandler {
	return &ConvertHandler{
		convertService: convertService,
	}
}

// ConvertRequest is the body of POST /api/v1/conversions.
type ConvertRequest struct {
	InputPath string `json:"inputPath" binding:"required"`
	OutputDir string `json:"outputDir" binding:"required"`
}

// conversionResponse pairs the stored record with the progress events
// collected during the call, so the UI can show the tier transitions.
type conversionResponse struct {
	Record *models.ConversionRecord `json:"record"`
	Events []models.Event           `json:"events"`
}

// Convert handles POST /api/v1/conversions. The call is synchronous;
// callers wanting a responsive UI run the request off their main
// thread, exactly as they would with the library interface.
func (h *ConvertHandler) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "inputPath and outputDir are required")
		return
	}

	rec, events, err := h.convertService.Convert(req.InputPath, req.OutputDir, nil)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if rec.Status == models.StatusFailure {
		response.UnprocessableEntity(c, rec.Reason, conversionResponse{Record: rec, Events: events})
		return
	}
	response.Success(c, conversionResponse{Record: rec, Events: events})
}

// List handles GET /api/v1/conversions
func (h *ConvertHandler) List(c *gin.Context) {
	var filter models.ConversionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.convertService.ListConversions(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, result)
}

// GetByID handles GET /api/v1/conversions/:id
func (h *ConvertHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid conversion ID")
		return
	}

	rec, err := h.convertService.GetConversion(id)
	if err != nil {
		response.NotFound(c, "Conversion not found")
		return
	}
	response.Success(c, rec)
}
