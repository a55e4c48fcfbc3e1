package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"certificados/internal/drive"
	"certificados/internal/models"
	appErrors "certificados/pkg/errors"
)

type cohortRepository interface {
	ListByCohort(ctx context.Context, classCode string) ([]models.Certificate, error)
	Delete(ctx context.Context, id int64) error
}

type purgeMetrics interface {
	RecordDriveRemoval(outcome drive.Outcome)
	RecordPurgedRow()
}

// PurgeSink receives the progress log of one cohort purge. Each call
// maps to one immutable record the transport flushes immediately.
type PurgeSink interface {
	Header(classCode string)
	Row(index int, studentName string, outcome drive.Outcome)
	Footer(removed int)
}

// PurgeService deletes a whole cohort row by row, streaming progress as
// it goes.
type PurgeService struct {
	repo     cohortRepository
	remover  drive.Remover
	metrics  purgeMetrics
	rowDelay time.Duration
	logger   *zap.Logger
}

// NewPurgeService constructs the purge service. metrics may be nil.
// rowDelay paces the emitted log so it stays readable.
func NewPurgeService(repo cohortRepository, remover drive.Remover, metrics purgeMetrics, rowDelay time.Duration, logger *zap.Logger) *PurgeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurgeService{repo: repo, remover: remover, metrics: metrics, rowDelay: rowDelay, logger: logger}
}

// PurgeCohort snapshots the cohort once and then, for each certificate:
// attempts the Drive removal, deletes the row (committed immediately),
// and emits one progress record. The Drive outcome never blocks the row
// deletion. A store failure aborts mid-stream: rows already deleted
// stay deleted, the footer is never emitted, and re-invoking simply
// re-snapshots whatever remains. The snapshot is intentionally
// unbounded; cohorts are class-sized.
func (s *PurgeService) PurgeCohort(ctx context.Context, classCode string, sink PurgeSink) error {
	sink.Header(classCode)

	certs, err := s.repo.ListByCohort(ctx, classCode)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot cohort")
	}

	removed := 0
	for _, cert := range certs {
		if s.rowDelay > 0 {
			time.Sleep(s.rowDelay)
		}

		outcome := s.remover.Remove(ctx, cert.FileLink)
		if s.metrics != nil {
			s.metrics.RecordDriveRemoval(outcome)
		}

		if err := s.repo.Delete(ctx, cert.ID); err != nil {
			s.logger.Error("cohort purge aborted",
				zap.String("class_code", classCode),
				zap.Int64("certificate_id", cert.ID),
				zap.Int("removed_so_far", removed),
				zap.Error(err))
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete certificate")
		}

		removed++
		if s.metrics != nil {
			s.metrics.RecordPurgedRow()
		}
		sink.Row(removed, cert.StudentName, outcome)
	}

	sink.Footer(removed)
	s.logger.Info("cohort purged", zap.String("class_code", classCode), zap.Int("removed", removed))
	return nil
}
