// Command import_certificates bulk-loads certificates from a CSV file.
//
// Each record carries the student's plain national ID, which is hashed
// with the configured salt before insertion; the plain ID never reaches
// the database. Expected columns: national_id, student_name, class_code,
// file_link, and optionally course_name (registers the cohort's course).
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"certificados/pkg/config"
	"certificados/pkg/database"
	"certificados/pkg/identity"
)

func main() {
	var (
		path    string
		active  bool
		dryRun  bool
		timeout time.Duration
	)

	flag.StringVar(&path, "file", "", "Path to the CSV file (required)")
	flag.BoolVar(&active, "active", false, "Insert certificates already visible to students")
	flag.BoolVar(&dryRun, "dry-run", false, "Parse and report without writing to the database")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall import timeout")
	flag.Parse()

	if path == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	records, err := loadRecords(path)
	if err != nil {
		log.Fatalf("failed to read %s: %v", path, err)
	}
	if dryRun {
		fmt.Printf("Parsed %d records from %s (dry run, nothing written)\n", len(records), path)
		return
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	hasher := identity.NewHasher(cfg.Security.Salt)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		log.Fatalf("failed to open transaction: %v", err)
	}
	defer tx.Rollback() //nolint:errcheck

	courses := map[string]string{}
	for i, rec := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO certificados (cpf_aluno, nome_aluno, cod_turma, link_drive, ativo)
			 VALUES ($1, $2, $3, $4, $5)`,
			hasher.Key(rec.nationalID), rec.studentName, rec.classCode, rec.fileLink, active)
		if err != nil {
			log.Fatalf("record %d (%s): insert failed: %v", i+1, rec.studentName, err)
		}
		if rec.courseName != "" {
			courses[rec.classCode] = rec.courseName
		}
	}

	for classCode, courseName := range courses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cursos (cod_turma, nome_curso)
			 SELECT $1, $2
			 WHERE NOT EXISTS (SELECT 1 FROM cursos WHERE cod_turma = $1)`,
			classCode, courseName)
		if err != nil {
			log.Fatalf("course %s: insert failed: %v", classCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("commit failed: %v", err)
	}

	fmt.Printf("Imported %d certificates and %d courses (active=%t)\n", len(records), len(courses), active)
}

type record struct {
	nationalID  string
	studentName string
	classCode   string
	fileLink    string
	courseName  string
}

func loadRecords(path string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"national_id", "student_name", "class_code"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var records []record
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec := record{
			nationalID:  field(row, idx, "national_id"),
			studentName: field(row, idx, "student_name"),
			classCode:   field(row, idx, "class_code"),
			fileLink:    field(row, idx, "file_link"),
			courseName:  field(row, idx, "course_name"),
		}
		if rec.nationalID == "" || rec.studentName == "" || rec.classCode == "" {
			return nil, fmt.Errorf("line %d: national_id, student_name and class_code are required", line)
		}
		records = append(records, rec)
	}
	return records, nil
}

func field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
