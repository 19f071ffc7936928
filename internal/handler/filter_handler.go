package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-content-push/internal/dto"
	"github.com/noah-isme/lms-content-push/internal/service"
	appErrors "github.com/noah-isme/lms-content-push/pkg/errors"
	"github.com/noah-isme/lms-content-push/pkg/response"
)

// FilterHandler exposes filter rule management and the diagnostic endpoint.
type FilterHandler struct {
	rules *service.RuleService
}

// NewFilterHandler constructs the handler.
func NewFilterHandler(rules *service.RuleService) *FilterHandler {
	return &FilterHandler{rules: rules}
}

// Create godoc
// @Summary Create a filter rule
// @Tags Filter Rules
// @Accept json
// @Produce json
// @Param payload body dto.FilterRuleRequest true "Filter rule"
// @Success 201 {object} response.Envelope
// @Router /filter-rules [post]
func (h *FilterHandler) Create(c *gin.Context) {
	var req dto.FilterRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filter rule"))
		return
	}

	rule, err := h.rules.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rule)
}

// List godoc
// @Summary List filter rules
// @Tags Filter Rules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /filter-rules [get]
func (h *FilterHandler) List(c *gin.Context) {
	rules, err := h.rules.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// Test godoc
// @Summary Evaluate the filter decision for a content record without pushing
// @Tags Filter Rules
// @Accept json
// @Produce json
// @Param payload body dto.TestFilterRequest true "Content and rule under test"
// @Success 200 {object} response.Envelope
// @Router /filter-rules/test [post]
func (h *FilterHandler) Test(c *gin.Context) {
	var req dto.TestFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid test request"))
		return
	}

	result, err := h.rules.Test(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
