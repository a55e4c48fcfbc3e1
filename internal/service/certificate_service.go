package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"certificados/internal/drive"
	"certificados/internal/models"
	appErrors "certificados/pkg/errors"
	"certificados/pkg/export"
)

type certificateRepository interface {
	List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, error)
	CohortSummaries(ctx context.Context) ([]models.CohortSummary, error)
	FindByID(ctx context.Context, id int64) (*models.Certificate, error)
	Update(ctx context.Context, cert *models.Certificate) error
	SetCohortActive(ctx context.Context, classCode string, active bool) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// driveMetrics is the slice of the metrics service these use-cases need.
type driveMetrics interface {
	RecordDriveRemoval(outcome drive.Outcome)
}

// ActivateAction is the only toggle token that enables a cohort; every
// other token disables it.
const ActivateAction = "activate"

// UpdateCertificateRequest carries the admin edit form. Active follows
// checkbox semantics: absent means false.
type UpdateCertificateRequest struct {
	StudentName string `json:"student_name" validate:"required"`
	ClassCode   string `json:"class_code" validate:"required"`
	FileLink    string `json:"file_link"`
	Active      bool   `json:"active"`
}

// Listing bundles the dashboard rows with the always-present cohort
// summary.
type Listing struct {
	Certificates []models.Certificate   `json:"certificates"`
	Summaries    []models.CohortSummary `json:"cohort_summaries"`
}

// CertificateService implements the admin use-cases over certificate
// records.
type CertificateService struct {
	repo      certificateRepository
	remover   drive.Remover
	metrics   driveMetrics
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCertificateService constructs the certificate admin service.
// metrics may be nil.
func NewCertificateService(repo certificateRepository, remover drive.Remover, metrics driveMetrics, validate *validator.Validate, logger *zap.Logger) *CertificateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{repo: repo, remover: remover, metrics: metrics, validator: validate, logger: logger}
}

// Listing returns the filtered rows plus the unfiltered cohort summary.
func (s *CertificateService) Listing(ctx context.Context, filter models.CertificateFilter) (*Listing, error) {
	certs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list certificates")
	}
	summaries, err := s.repo.CohortSummaries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise cohorts")
	}
	return &Listing{Certificates: certs, Summaries: summaries}, nil
}

// Get loads one certificate for the edit form.
func (s *CertificateService) Get(ctx context.Context, id int64) (*models.Certificate, error) {
	cert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}
	return cert, nil
}

// Update overwrites the editable fields of one certificate.
func (s *CertificateService) Update(ctx context.Context, id int64, req UpdateCertificateRequest) (*models.Certificate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "student name and class code are required")
	}

	cert, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cert.StudentName = req.StudentName
	cert.ClassCode = req.ClassCode
	cert.FileLink = req.FileLink
	cert.Active = req.Active
	if err := s.repo.Update(ctx, cert); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update certificate")
	}
	return cert, nil
}

// ToggleCohort sets the visibility flag for every certificate in the
// cohort and reports the flag applied plus the affected row count.
func (s *CertificateService) ToggleCohort(ctx context.Context, classCode, action string) (bool, int64, error) {
	active := action == ActivateAction
	affected, err := s.repo.SetCohortActive(ctx, classCode, active)
	if err != nil {
		return false, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle cohort")
	}
	s.logger.Info("cohort visibility toggled",
		zap.String("class_code", classCode),
		zap.Bool("active", active),
		zap.Int64("affected", affected))
	return active, affected, nil
}

// DeleteOne removes a certificate and best-effort removes its backing
// file. A missing id is a silent no-op; a failed file removal never
// blocks the row deletion.
func (s *CertificateService) DeleteOne(ctx context.Context, id int64) error {
	cert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}

	outcome := s.remover.Remove(ctx, cert.FileLink)
	if s.metrics != nil {
		s.metrics.RecordDriveRemoval(outcome)
	}
	if !outcome.Succeeded() {
		s.logger.Warn("drive removal failed",
			zap.Int64("certificate_id", id),
			zap.String("outcome", outcome.String()))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete certificate")
	}
	return nil
}

// ExportFormat selects the listing export encoding.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// Export renders the filtered listing as a downloadable document and
// returns the bytes with their content type.
func (s *CertificateService) Export(ctx context.Context, filter models.CertificateFilter, format ExportFormat) ([]byte, string, error) {
	certs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list certificates")
	}

	data := export.Dataset{
		Headers: []string{"id", "student_name", "class_code", "file_link", "active"},
		Rows:    make([]map[string]string, 0, len(certs)),
	}
	for _, c := range certs {
		data.Rows = append(data.Rows, map[string]string{
			"id":           strconv.FormatInt(c.ID, 10),
			"student_name": c.StudentName,
			"class_code":   c.ClassCode,
			"file_link":    c.FileLink,
			"active":       strconv.FormatBool(c.Active),
		})
	}

	switch format {
	case ExportCSV:
		out, err := export.CSV(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return out, "text/csv", nil
	case ExportPDF:
		out, err := export.PDF(data, "certificates")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return out, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
