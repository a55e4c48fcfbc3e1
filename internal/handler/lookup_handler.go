package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"certificados/internal/models"
	"certificados/internal/service"
	appErrors "certificados/pkg/errors"
	"certificados/pkg/response"
)

type lookupService interface {
	Search(ctx context.Context, rawID string) (*service.SearchResult, error)
	AvailableCourses(ctx context.Context) ([]models.AvailableCourse, error)
}

// LookupHandler serves the public certificate search.
type LookupHandler struct {
	service lookupService
}

// NewLookupHandler creates a new handler.
func NewLookupHandler(svc lookupService) *LookupHandler {
	return &LookupHandler{service: svc}
}

// Search godoc
// @Summary Search certificates by national ID
// @Description Hashes the submitted ID and returns matching active certificates; the course badge list rides along on every response
// @Tags Public
// @Accept json
// @Produce json
// @Param payload body object true "Search payload: {\"cpf\": \"...\"}"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /search [post]
func (h *LookupHandler) Search(c *gin.Context) {
	var req struct {
		CPF string `json:"cpf"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid search payload"))
		return
	}

	result, err := h.service.Search(c.Request.Context(), req.CPF)
	if err != nil {
		response.Error(c, err)
		return
	}

	// The badge list is part of every page view, search or not.
	courses, err := h.service.AvailableCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, map[string]interface{}{"available_courses": courses})
}

// Courses godoc
// @Summary List available courses
// @Description Distinct (course name, class code) pairs having at least one active certificate
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *LookupHandler) Courses(c *gin.Context) {
	courses, err := h.service.AvailableCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}
