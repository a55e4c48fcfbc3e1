package models

import "database/sql"

// Certificate is one issued certificate for one student in one cohort.
// StudentIDHash is the salted hash of the student's national ID; the
// cleartext ID is never stored.
type Certificate struct {
	ID            int64  `db:"id" json:"id"`
	StudentIDHash string `db:"cpf_aluno" json:"-"`
	StudentName   string `db:"nome_aluno" json:"student_name"`
	ClassCode     string `db:"cod_turma" json:"class_code"`
	FileLink      string `db:"link_drive" json:"file_link"`
	Active        bool   `db:"ativo" json:"active"`
}

// CertificateMatch is a public search result: a certificate joined with
// its course name. The join is optional; a cohort without a course row
// simply has no name.
type CertificateMatch struct {
	Certificate
	CourseName sql.NullString `db:"nome_curso" json:"-"`
}

// DisplayCourseName returns the joined course name or empty.
func (m CertificateMatch) DisplayCourseName() string {
	if m.CourseName.Valid {
		return m.CourseName.String
	}
	return ""
}

// CohortSummary aggregates one cohort's certificate counts.
type CohortSummary struct {
	ClassCode string `db:"cod_turma" json:"class_code"`
	Total     int    `db:"total" json:"total"`
	Active    int    `db:"ativos" json:"active"`
}

// CertificateFilter narrows the admin listing.
type CertificateFilter struct {
	Search string
}
