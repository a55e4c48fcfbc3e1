package models

// Course describes one class offering. Rows are managed by an external
// process and are read-only here.
type Course struct {
	ID         int64  `db:"id" json:"id"`
	ClassCode  string `db:"cod_turma" json:"class_code"`
	CourseName string `db:"nome_curso" json:"course_name"`
}

// AvailableCourse is one (course name, class code) badge shown on every
// public page view; only cohorts with at least one active certificate
// and a matching course row appear.
type AvailableCourse struct {
	CourseName string `db:"nome_curso" json:"course_name"`
	ClassCode  string `db:"cod_turma" json:"class_code"`
}
