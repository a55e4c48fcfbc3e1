package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certificados/internal/models"
	"certificados/internal/service"
	appErrors "certificados/pkg/errors"
)

type fakeLookupService struct {
	result  *service.SearchResult
	err     error
	courses []models.AvailableCourse
	lastRaw string
}

func (f *fakeLookupService) Search(_ context.Context, rawID string) (*service.SearchResult, error) {
	f.lastRaw = rawID
	return f.result, f.err
}

func (f *fakeLookupService) AvailableCourses(context.Context) ([]models.AvailableCourse, error) {
	return f.courses, nil
}

func postJSON(t *testing.T, h gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return rec
}

func TestLookupHandlerSearchSuccess(t *testing.T) {
	svc := &fakeLookupService{
		result:  &service.SearchResult{Matches: []service.SearchMatch{{ID: 1, StudentName: "Maria", ClassCode: "T01", CourseName: "Excel"}}},
		courses: []models.AvailableCourse{{CourseName: "Excel", ClassCode: "T01"}},
	}
	handler := NewLookupHandler(svc)

	rec := postJSON(t, handler.Search, "/search", `{"cpf":"123.456.789-09"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "123.456.789-09", svc.lastRaw)

	var envelope struct {
		Data service.SearchResult   `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Matches, 1)
	assert.Equal(t, "Maria", envelope.Data.Matches[0].StudentName)
	assert.Contains(t, envelope.Meta, "available_courses")
}

func TestLookupHandlerSearchInvalidPayload(t *testing.T) {
	handler := NewLookupHandler(&fakeLookupService{})

	rec := postJSON(t, handler.Search, "/search", `{bad json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLookupHandlerSearchEmptyID(t *testing.T) {
	svc := &fakeLookupService{err: appErrors.Clone(appErrors.ErrValidation, "invalid ID")}
	handler := NewLookupHandler(svc)

	rec := postJSON(t, handler.Search, "/search", `{"cpf":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid ID")
}

func TestLookupHandlerCourses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLookupHandler(&fakeLookupService{courses: []models.AvailableCourse{{CourseName: "Power BI", ClassCode: "T03"}}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses", nil)

	handler.Courses(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Power BI")
}
