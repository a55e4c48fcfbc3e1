package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"certificados/internal/models"
)

// CourseRepository reads course rows; they are managed elsewhere.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// AvailableCourses returns the distinct (course name, class code) pairs
// that currently have at least one active certificate. The join is
// inner: cohorts without a course row carry no badge.
func (r *CourseRepository) AvailableCourses(ctx context.Context) ([]models.AvailableCourse, error) {
	const query = `SELECT DISTINCT cu.nome_curso, c.cod_turma
        FROM certificados c
        JOIN cursos cu ON cu.cod_turma = c.cod_turma
        WHERE c.ativo = true
        ORDER BY cu.nome_curso, c.cod_turma`
	courses := []models.AvailableCourse{}
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list available courses: %w", err)
	}
	return courses, nil
}
