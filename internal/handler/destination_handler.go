package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-content-push/internal/dto"
	"github.com/noah-isme/lms-content-push/internal/service"
	appErrors "github.com/noah-isme/lms-content-push/pkg/errors"
	"github.com/noah-isme/lms-content-push/pkg/response"
)

// DestinationHandler exposes destination configuration endpoints.
type DestinationHandler struct {
	destinations *service.DestinationService
}

// NewDestinationHandler constructs the handler.
func NewDestinationHandler(destinations *service.DestinationService) *DestinationHandler {
	return &DestinationHandler{destinations: destinations}
}

// Create godoc
// @Summary Create a destination
// @Tags Destinations
// @Accept json
// @Produce json
// @Param payload body dto.DestinationRequest true "Destination"
// @Success 201 {object} response.Envelope
// @Router /destinations [post]
func (h *DestinationHandler) Create(c *gin.Context) {
	var req dto.DestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid destination"))
		return
	}

	dest, err := h.destinations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dest)
}

// List godoc
// @Summary List destinations
// @Tags Destinations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /destinations [get]
func (h *DestinationHandler) List(c *gin.Context) {
	dests, err := h.destinations.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dests, nil)
}
