package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"certificados/internal/models"
	"certificados/internal/service"
	appErrors "certificados/pkg/errors"
	"certificados/pkg/response"
)

type certificateAdminService interface {
	Listing(ctx context.Context, filter models.CertificateFilter) (*service.Listing, error)
	Get(ctx context.Context, id int64) (*models.Certificate, error)
	Update(ctx context.Context, id int64, req service.UpdateCertificateRequest) (*models.Certificate, error)
	ToggleCohort(ctx context.Context, classCode, action string) (bool, int64, error)
	DeleteOne(ctx context.Context, id int64) error
	Export(ctx context.Context, filter models.CertificateFilter, format service.ExportFormat) ([]byte, string, error)
}

// CertificateHandler wires the admin certificate endpoints.
type CertificateHandler struct {
	service certificateAdminService
}

// NewCertificateHandler creates a new handler.
func NewCertificateHandler(svc certificateAdminService) *CertificateHandler {
	return &CertificateHandler{service: svc}
}

// List godoc
// @Summary List certificates
// @Description Most recent certificates with an optional name/class filter plus per-cohort summaries; format=csv|pdf downloads the filtered rows instead
// @Tags Certificates
// @Produce json
// @Param q query string false "Case-insensitive substring of student name or class code"
// @Param format query string false "Export format (csv or pdf)"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/certificates [get]
func (h *CertificateHandler) List(c *gin.Context) {
	filter := models.CertificateFilter{Search: c.Query("q")}

	if format := c.Query("format"); format != "" {
		out, contentType, err := h.service.Export(c.Request.Context(), filter, service.ExportFormat(format))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=certificates.%s", format))
		c.Data(http.StatusOK, contentType, out)
		return
	}

	listing, err := h.service.Listing(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, listing)
}

// Get godoc
// @Summary Load one certificate
// @Tags Certificates
// @Produce json
// @Param id path int true "Certificate id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/certificates/{id} [get]
func (h *CertificateHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	cert, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert)
}

// Update godoc
// @Summary Update one certificate
// @Description Overwrites student name, class code, file link, and the visibility flag
// @Tags Certificates
// @Accept json
// @Produce json
// @Param id path int true "Certificate id"
// @Param payload body service.UpdateCertificateRequest true "New field values"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/certificates/{id} [put]
func (h *CertificateHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid certificate payload"))
		return
	}

	cert, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert)
}

// Toggle godoc
// @Summary Toggle cohort visibility
// @Description Sets the active flag for every certificate in the cohort: "activate" enables, anything else disables
// @Tags Cohorts
// @Produce json
// @Param classCode path string true "Class code"
// @Param action path string true "Action token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/cohorts/{classCode}/{action} [post]
func (h *CertificateHandler) Toggle(c *gin.Context) {
	classCode := c.Param("classCode")
	action := c.Param("action")

	active, affected, err := h.service.ToggleCohort(c.Request.Context(), classCode, action)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"class_code": classCode,
		"active":     active,
		"affected":   affected,
	})
}

// Delete godoc
// @Summary Delete one certificate
// @Description Best-effort removes the backing file, then deletes the row; a missing id is a silent no-op
// @Tags Certificates
// @Produce json
// @Param id path int true "Certificate id"
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/certificates/{id} [delete]
func (h *CertificateHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteOne(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid certificate id"))
		return 0, false
	}
	return id, true
}
