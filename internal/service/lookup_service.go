package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"certificados/internal/models"
	appErrors "certificados/pkg/errors"
	"certificados/pkg/identity"
)

type certificateSearcher interface {
	SearchActiveByHash(ctx context.Context, hash string) ([]models.CertificateMatch, error)
}

type courseLister interface {
	AvailableCourses(ctx context.Context) ([]models.AvailableCourse, error)
}

// CourseCache holds the badge list between page views; it is recomputed
// on every public request otherwise.
type CourseCache interface {
	Get(ctx context.Context) ([]models.AvailableCourse, bool)
	Set(ctx context.Context, courses []models.AvailableCourse)
}

// SearchMatch is one public search result row.
type SearchMatch struct {
	ID          int64  `json:"id"`
	StudentName string `json:"student_name"`
	ClassCode   string `json:"class_code"`
	CourseName  string `json:"course_name,omitempty"`
	FileLink    string `json:"file_link"`
}

// SearchResult is the full outcome of one lookup. Message is set only
// when nothing matched; it echoes at most the last four digits.
type SearchResult struct {
	Matches []SearchMatch `json:"matches"`
	Message string        `json:"message,omitempty"`
}

// LookupService is the student-facing search flow. It has no side
// effects and applies no rate limiting; the one-way hash is the only
// guard against enumeration.
type LookupService struct {
	certs   certificateSearcher
	courses courseLister
	cache   CourseCache
	hasher  *identity.Hasher
	logger  *zap.Logger
}

// NewLookupService constructs the lookup service. cache may be nil.
func NewLookupService(certs certificateSearcher, courses courseLister, cache CourseCache, hasher *identity.Hasher, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{certs: certs, courses: courses, cache: cache, hasher: hasher, logger: logger}
}

// Search hashes the submitted ID and returns the matching active
// certificates with their course names.
func (s *LookupService) Search(ctx context.Context, rawID string) (*SearchResult, error) {
	if rawID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid ID")
	}

	key := s.hasher.Key(rawID)
	matches, err := s.certs.SearchActiveByHash(ctx, key)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search certificates")
	}

	if len(matches) == 0 {
		return &SearchResult{
			Matches: []SearchMatch{},
			Message: fmt.Sprintf("no certificates found for the ID ending in ...%s", identity.LastDigits(rawID, 4)),
		}, nil
	}

	result := &SearchResult{Matches: make([]SearchMatch, 0, len(matches))}
	for _, m := range matches {
		result.Matches = append(result.Matches, SearchMatch{
			ID:          m.ID,
			StudentName: m.StudentName,
			ClassCode:   m.ClassCode,
			CourseName:  m.DisplayCourseName(),
			FileLink:    m.FileLink,
		})
	}
	return result, nil
}

// AvailableCourses returns the badge list, served from cache when warm.
func (s *LookupService) AvailableCourses(ctx context.Context) ([]models.AvailableCourse, error) {
	if s.cache != nil {
		if courses, ok := s.cache.Get(ctx); ok {
			return courses, nil
		}
	}

	courses, err := s.courses.AvailableCourses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list available courses")
	}

	if s.cache != nil {
		s.cache.Set(ctx, courses)
	}
	return courses, nil
}
