package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificados/internal/models"
	"certificados/pkg/identity"
)

type mockCertSearcher struct {
	byHash map[string][]models.CertificateMatch
	calls  int
	err    error
}

func (m *mockCertSearcher) SearchActiveByHash(_ context.Context, hash string) ([]models.CertificateMatch, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.byHash[hash], nil
}

type mockCourseLister struct {
	courses []models.AvailableCourse
	calls   int
	err     error
}

func (m *mockCourseLister) AvailableCourses(context.Context) ([]models.AvailableCourse, error) {
	m.calls++
	return m.courses, m.err
}

type mapCourseCache struct {
	courses []models.AvailableCourse
	warm    bool
	sets    int
}

func (c *mapCourseCache) Get(context.Context) ([]models.AvailableCourse, bool) {
	return c.courses, c.warm
}

func (c *mapCourseCache) Set(_ context.Context, courses []models.AvailableCourse) {
	c.courses = courses
	c.warm = true
	c.sets++
}

func activeMatch(id int64, name, class string) models.CertificateMatch {
	return models.CertificateMatch{Certificate: models.Certificate{ID: id, StudentName: name, ClassCode: class, Active: true}}
}

func TestLookupSearchFindsActiveCertificate(t *testing.T) {
	hasher := identity.NewHasher("pepper")
	searcher := &mockCertSearcher{byHash: map[string][]models.CertificateMatch{
		hasher.Key("12345678909"): {activeMatch(1, "Maria", "T01")},
	}}
	svc := NewLookupService(searcher, &mockCourseLister{}, nil, hasher, nil)

	// Punctuation must not affect the lookup.
	result, err := svc.Search(context.Background(), "123.456.789-09")
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Maria", result.Matches[0].StudentName)
	assert.Empty(t, result.Message)
}

func TestLookupSearchEmptyInputDoesNotQuery(t *testing.T) {
	searcher := &mockCertSearcher{}
	svc := NewLookupService(searcher, &mockCourseLister{}, nil, identity.NewHasher("pepper"), nil)

	_, err := svc.Search(context.Background(), "")
	require.Error(t, err)
	assert.Zero(t, searcher.calls)
}

func TestLookupSearchNotFoundEchoesLastFourDigitsOnly(t *testing.T) {
	svc := NewLookupService(&mockCertSearcher{}, &mockCourseLister{}, nil, identity.NewHasher("pepper"), nil)

	result, err := svc.Search(context.Background(), "123.456.789-09")
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
	assert.Contains(t, result.Message, "8909")
	assert.NotContains(t, result.Message, "12345678909")
}

func TestLookupSearchPropagatesStoreFailure(t *testing.T) {
	svc := NewLookupService(&mockCertSearcher{err: errors.New("connection reset")}, &mockCourseLister{}, nil, identity.NewHasher("pepper"), nil)

	_, err := svc.Search(context.Background(), "42")
	require.Error(t, err)
}

func TestAvailableCoursesCacheMissThenHit(t *testing.T) {
	lister := &mockCourseLister{courses: []models.AvailableCourse{{CourseName: "Excel", ClassCode: "T01"}}}
	cache := &mapCourseCache{}
	svc := NewLookupService(&mockCertSearcher{}, lister, cache, identity.NewHasher("pepper"), nil)

	first, err := svc.AvailableCourses(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, lister.calls)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.AvailableCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, lister.calls, "warm cache must skip the store")
}

func TestAvailableCoursesWithoutCache(t *testing.T) {
	lister := &mockCourseLister{}
	svc := NewLookupService(&mockCertSearcher{}, lister, nil, identity.NewHasher("pepper"), nil)

	_, err := svc.AvailableCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, lister.calls)
}
