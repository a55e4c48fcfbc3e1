package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"certificados/internal/models"
)

// ListLimit caps the admin listing; the dashboard only ever shows the
// most recent rows.
const ListLimit = 100

// CertificateRepository manages persistence for certificate records.
type CertificateRepository struct {
	db *sqlx.DB
}

// NewCertificateRepository constructs a CertificateRepository.
func NewCertificateRepository(db *sqlx.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// SearchActiveByHash returns active certificates whose stored hash
// equals the lookup key, joined with the course name when one exists.
func (r *CertificateRepository) SearchActiveByHash(ctx context.Context, hash string) ([]models.CertificateMatch, error) {
	const query = `SELECT c.id, c.cpf_aluno, c.nome_aluno, c.cod_turma, c.link_drive, c.ativo, cu.nome_curso
        FROM certificados c
        LEFT JOIN cursos cu ON cu.cod_turma = c.cod_turma
        WHERE c.cpf_aluno = $1 AND c.ativo = true
        ORDER BY c.id`
	matches := []models.CertificateMatch{}
	if err := r.db.SelectContext(ctx, &matches, query, hash); err != nil {
		return nil, fmt.Errorf("search certificates: %w", err)
	}
	return matches, nil
}

// List returns the most recent certificates, optionally filtered by a
// case-insensitive substring of the student name or class code.
func (r *CertificateRepository) List(ctx context.Context, filter models.CertificateFilter) ([]models.Certificate, error) {
	query := "SELECT id, cpf_aluno, nome_aluno, cod_turma, link_drive, ativo FROM certificados"
	args := []interface{}{}
	if filter.Search != "" {
		query += " WHERE LOWER(nome_aluno) LIKE $1 OR LOWER(cod_turma) LIKE $1"
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT %d", ListLimit)

	certs := []models.Certificate{}
	if err := r.db.SelectContext(ctx, &certs, query, args...); err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

// CohortSummaries aggregates total and active certificate counts per
// class code, independent of any listing filter.
func (r *CertificateRepository) CohortSummaries(ctx context.Context) ([]models.CohortSummary, error) {
	const query = `SELECT cod_turma, COUNT(*) AS total, SUM(CASE WHEN ativo THEN 1 ELSE 0 END) AS ativos
        FROM certificados GROUP BY cod_turma ORDER BY cod_turma DESC`
	summaries := []models.CohortSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("summarise cohorts: %w", err)
	}
	return summaries, nil
}

// FindByID fetches one certificate. Callers receive sql.ErrNoRows when
// the id does not exist.
func (r *CertificateRepository) FindByID(ctx context.Context, id int64) (*models.Certificate, error) {
	const query = `SELECT id, cpf_aluno, nome_aluno, cod_turma, link_drive, ativo FROM certificados WHERE id = $1`
	var cert models.Certificate
	if err := r.db.GetContext(ctx, &cert, query, id); err != nil {
		return nil, err
	}
	return &cert, nil
}

// Update overwrites the mutable fields of one certificate.
func (r *CertificateRepository) Update(ctx context.Context, cert *models.Certificate) error {
	const query = `UPDATE certificados SET nome_aluno = :nome_aluno, cod_turma = :cod_turma, link_drive = :link_drive, ativo = :ativo WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, cert); err != nil {
		return fmt.Errorf("update certificate: %w", err)
	}
	return nil
}

// SetCohortActive flips the visibility flag for every certificate in a
// cohort in one statement and reports the affected row count.
func (r *CertificateRepository) SetCohortActive(ctx context.Context, classCode string, active bool) (int64, error) {
	const query = `UPDATE certificados SET ativo = $2 WHERE cod_turma = $1`
	res, err := r.db.ExecContext(ctx, query, classCode, active)
	if err != nil {
		return 0, fmt.Errorf("toggle cohort: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("toggle cohort: %w", err)
	}
	return affected, nil
}

// ListByCohort snapshots every certificate of a cohort in id order.
func (r *CertificateRepository) ListByCohort(ctx context.Context, classCode string) ([]models.Certificate, error) {
	const query = `SELECT id, cpf_aluno, nome_aluno, cod_turma, link_drive, ativo FROM certificados WHERE cod_turma = $1 ORDER BY id`
	certs := []models.Certificate{}
	if err := r.db.SelectContext(ctx, &certs, query, classCode); err != nil {
		return nil, fmt.Errorf("snapshot cohort: %w", err)
	}
	return certs, nil
}

// Delete removes one certificate row.
func (r *CertificateRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM certificados WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	return nil
}
