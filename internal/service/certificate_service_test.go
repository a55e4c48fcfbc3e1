package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificados/internal/drive"
	"certificados/internal/models"
)

type mockCertificateRepo struct {
	certs      map[int64]models.Certificate
	nextErr    error
	deleted    []int64
	lastFilter models.CertificateFilter
}

func newMockCertificateRepo(certs ...models.Certificate) *mockCertificateRepo {
	m := &mockCertificateRepo{certs: make(map[int64]models.Certificate)}
	for _, c := range certs {
		m.certs[c.ID] = c
	}
	return m
}

func (m *mockCertificateRepo) sorted() []models.Certificate {
	out := make([]models.Certificate, 0, len(m.certs))
	for _, c := range m.certs {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *mockCertificateRepo) List(_ context.Context, filter models.CertificateFilter) ([]models.Certificate, error) {
	m.lastFilter = filter
	if m.nextErr != nil {
		return nil, m.nextErr
	}
	if filter.Search == "" {
		return m.sorted(), nil
	}
	needle := strings.ToLower(filter.Search)
	out := []models.Certificate{}
	for _, c := range m.sorted() {
		if strings.Contains(strings.ToLower(c.StudentName), needle) || strings.Contains(strings.ToLower(c.ClassCode), needle) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCertificateRepo) CohortSummaries(context.Context) ([]models.CohortSummary, error) {
	byClass := map[string]*models.CohortSummary{}
	for _, c := range m.certs {
		s, ok := byClass[c.ClassCode]
		if !ok {
			s = &models.CohortSummary{ClassCode: c.ClassCode}
			byClass[c.ClassCode] = s
		}
		s.Total++
		if c.Active {
			s.Active++
		}
	}
	out := []models.CohortSummary{}
	for _, s := range byClass {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClassCode > out[j].ClassCode })
	return out, nil
}

func (m *mockCertificateRepo) FindByID(_ context.Context, id int64) (*models.Certificate, error) {
	if c, ok := m.certs[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCertificateRepo) Update(_ context.Context, cert *models.Certificate) error {
	m.certs[cert.ID] = *cert
	return nil
}

func (m *mockCertificateRepo) SetCohortActive(_ context.Context, classCode string, active bool) (int64, error) {
	var affected int64
	for id, c := range m.certs {
		if c.ClassCode == classCode {
			c.Active = active
			m.certs[id] = c
			affected++
		}
	}
	return affected, nil
}

func (m *mockCertificateRepo) ListByCohort(_ context.Context, classCode string) ([]models.Certificate, error) {
	if m.nextErr != nil {
		return nil, m.nextErr
	}
	out := []models.Certificate{}
	for _, c := range m.sorted() {
		if c.ClassCode == classCode {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCertificateRepo) Delete(_ context.Context, id int64) error {
	if m.nextErr != nil {
		return m.nextErr
	}
	delete(m.certs, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// stubRemover reports a fixed outcome and records the links it saw.
type stubRemover struct {
	outcome drive.Outcome
	links   []string
}

func (r *stubRemover) Remove(_ context.Context, link string) drive.Outcome {
	r.links = append(r.links, link)
	return r.outcome
}

func TestCertificateServiceListingIncludesSummaries(t *testing.T) {
	repo := newMockCertificateRepo(
		models.Certificate{ID: 1, StudentName: "Ana", ClassCode: "T01", Active: true},
		models.Certificate{ID: 2, StudentName: "Bruno", ClassCode: "T01", Active: false},
		models.Certificate{ID: 3, StudentName: "Carla", ClassCode: "T02", Active: true},
	)
	svc := NewCertificateService(repo, &stubRemover{}, nil, nil, nil)

	listing, err := svc.Listing(context.Background(), models.CertificateFilter{Search: "t01"})
	require.NoError(t, err)
	assert.Len(t, listing.Certificates, 2, "filter applies to rows")
	assert.Len(t, listing.Summaries, 2, "summary ignores the filter")
	assert.Equal(t, models.CohortSummary{ClassCode: "T02", Total: 1, Active: 1}, listing.Summaries[0])
	assert.Equal(t, models.CohortSummary{ClassCode: "T01", Total: 2, Active: 1}, listing.Summaries[1])
}

func TestCertificateServiceGetNotFound(t *testing.T) {
	svc := NewCertificateService(newMockCertificateRepo(), &stubRemover{}, nil, nil, nil)

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
}

func TestCertificateServiceUpdate(t *testing.T) {
	repo := newMockCertificateRepo(models.Certificate{ID: 5, StudentName: "Old", ClassCode: "T01", Active: true})
	svc := NewCertificateService(repo, &stubRemover{}, nil, nil, nil)

	updated, err := svc.Update(context.Background(), 5, UpdateCertificateRequest{
		StudentName: "New Name",
		ClassCode:   "T02",
		FileLink:    "https://drive.google.com/file/d/Z/view",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.StudentName)
	assert.Equal(t, "T02", updated.ClassCode)
	assert.False(t, updated.Active, "absent flag means false")
	assert.False(t, repo.certs[5].Active)
}

func TestCertificateServiceUpdateValidation(t *testing.T) {
	repo := newMockCertificateRepo(models.Certificate{ID: 5, StudentName: "Old", ClassCode: "T01"})
	svc := NewCertificateService(repo, &stubRemover{}, nil, nil, nil)

	_, err := svc.Update(context.Background(), 5, UpdateCertificateRequest{StudentName: "", ClassCode: "T02"})
	require.Error(t, err)
	assert.Equal(t, "Old", repo.certs[5].StudentName, "invalid payload must not persist")
}

func TestCertificateServiceToggleCohort(t *testing.T) {
	repo := newMockCertificateRepo(
		models.Certificate{ID: 1, ClassCode: "T01", Active: false},
		models.Certificate{ID: 2, ClassCode: "T01", Active: false},
		models.Certificate{ID: 3, ClassCode: "T02", Active: true},
	)
	svc := NewCertificateService(repo, &stubRemover{}, nil, nil, nil)

	active, affected, err := svc.ToggleCohort(context.Background(), "T01", ActivateAction)
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, int64(2), affected)
	assert.True(t, repo.certs[1].Active)
	assert.True(t, repo.certs[2].Active)
	assert.True(t, repo.certs[3].Active, "other cohorts untouched")

	// Any token other than "activate" deactivates.
	active, _, err = svc.ToggleCohort(context.Background(), "T02", "hide")
	require.NoError(t, err)
	assert.False(t, active)
	assert.False(t, repo.certs[3].Active)
}

func TestCertificateServiceDeleteOneIgnoresDriveFailure(t *testing.T) {
	repo := newMockCertificateRepo(models.Certificate{ID: 7, FileLink: "https://drive.google.com/file/d/F/view", ClassCode: "T01"})
	remover := &stubRemover{outcome: drive.OutcomeFailed}
	svc := NewCertificateService(repo, remover, nil, nil, nil)

	require.NoError(t, svc.DeleteOne(context.Background(), 7))
	assert.Equal(t, []string{"https://drive.google.com/file/d/F/view"}, remover.links)
	assert.Empty(t, repo.certs, "row deleted despite drive failure")
}

func TestCertificateServiceDeleteOneMissingIsNoOp(t *testing.T) {
	remover := &stubRemover{}
	svc := NewCertificateService(newMockCertificateRepo(), remover, nil, nil, nil)

	require.NoError(t, svc.DeleteOne(context.Background(), 42))
	assert.Empty(t, remover.links, "no drive call for a missing row")
}

func TestCertificateServiceExportCSV(t *testing.T) {
	repo := newMockCertificateRepo(models.Certificate{ID: 1, StudentName: "Ana", ClassCode: "T01", Active: true})
	svc := NewCertificateService(repo, &stubRemover{}, nil, nil, nil)

	out, contentType, err := svc.Export(context.Background(), models.CertificateFilter{}, ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(out), "Ana")
	assert.Contains(t, string(out), "T01")
}

func TestCertificateServiceExportUnknownFormat(t *testing.T) {
	svc := NewCertificateService(newMockCertificateRepo(), &stubRemover{}, nil, nil, nil)

	_, _, err := svc.Export(context.Background(), models.CertificateFilter{}, ExportFormat("xml"))
	require.Error(t, err)
}

func TestCertificateServiceListingStoreFailure(t *testing.T) {
	repo := newMockCertificateRepo()
	repo.nextErr = errors.New("connection refused")
	svc := NewCertificateService(repo, &stubRemover{}, nil, nil, nil)

	_, err := svc.Listing(context.Background(), models.CertificateFilter{})
	require.Error(t, err)
}
