package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/controllers"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	tokens "github.com/yigit/enrollment/internal/pkg/auth"
)

type stubCourses struct {
	services.CourseService
	filter models.CourseFilter
	caller auth.Principal
}

func (s *stubCourses) ListCourses(_ context.Context, p auth.Principal, f models.CourseFilter) ([]*models.Course, error) {
	s.caller, s.filter = p, f
	return []*models.Course{{ID: 1, Title: "Databases"}}, nil
}

func (s *stubCourses) GetCourse(_ context.Context, _ auth.Principal, id int64) (*dto.CourseDetailsResponse, error) {
	if id == 99 {
		return nil, apperrors.NewForbiddenError("course is outside your scope")
	}
	return &dto.CourseDetailsResponse{Course: &models.Course{ID: id}}, nil
}

type stubEnrollments struct {
	services.EnrollmentService
	courseID int64
	year     int
	semester string
	ids      []int64
}

func (s *stubEnrollments) EnrollStudents(_ context.Context, _ auth.Principal, courseID int64, year int, semester string, ids []int64) (*dto.EnrollStudentsResponse, error) {
	s.courseID, s.year, s.semester, s.ids = courseID, year, semester, ids
	return &dto.EnrollStudentsResponse{Semester: models.NormalizeSemester(semester), Year: year, Enrolled: ids}, nil
}

type stubGrading struct {
	services.GradingService
	edits []models.GradeEdit
}

func (s *stubGrading) UpdateGrades(_ context.Context, _ auth.Principal, _ int64, _ int, edits []models.GradeEdit) (*dto.GradebookUpdateResponse, error) {
	s.edits = edits
	return &dto.GradebookUpdateResponse{Updated: []int64{edits[0].EnrollmentID}}, nil
}

type harness struct {
	router      *gin.Engine
	jwt         *tokens.JWTService
	courses     *stubCourses
	enrollments *stubEnrollments
	grading     *stubGrading
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidation()

	h := &harness{
		jwt:         tokens.NewJWTService(tokens.JWTConfig{SecretKey: "routes-test", AccessTokenExp: time.Hour, TokenIssuer: "test"}),
		courses:     &stubCourses{},
		enrollments: &stubEnrollments{},
		grading:     &stubGrading{},
	}
	log := zerolog.Nop()
	h.router = gin.New()
	SetupRouter(h.router, Controllers{
		Auth:       controllers.NewAuthController(nil, nil, log),
		Course:     controllers.NewCourseController(h.courses, h.enrollments, h.grading, log),
		Enrollment: controllers.NewEnrollmentController(h.enrollments, h.grading, log),
		Student:    controllers.NewStudentController(nil, log),
		Teacher:    controllers.NewTeacherController(nil, log),
	}, middleware.NewAuthMiddleware(h.jwt))
	return h
}

func (h *harness) token(t *testing.T, role models.Role, id int64) string {
	t.Helper()
	identity := tokens.Identity{AccountID: 1, Email: "user@rsweb.com", Role: string(role)}
	switch role {
	case models.RoleTeacher:
		identity.TeacherID = &id
	case models.RoleStudent:
		identity.StudentID = &id
	}
	tok, _, err := h.jwt.GenerateAccessToken(identity)
	require.NoError(t, err)
	return tok
}

func (h *harness) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorCode {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"ok"`)
}

func TestCourseRoutes_Access(t *testing.T) {
	h := newHarness(t)
	teacher := h.token(t, models.RoleTeacher, 7)

	w := h.do(http.MethodGet, "/api/v1/courses", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodGet, "/api/v1/courses?title=data&semester=3", teacher, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleTeacher, h.courses.caller.Role)
	assert.Equal(t, int64(7), *h.courses.caller.TeacherID)
	assert.Equal(t, "data", h.courses.filter.Title)
	require.NotNil(t, h.courses.filter.Semester)
	assert.Equal(t, 3, *h.courses.filter.Semester)

	w = h.do(http.MethodPost, "/api/v1/courses", teacher, `{"title":"X","semester":1}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(http.MethodGet, "/api/v1/courses/abc", teacher, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/api/v1/courses/99", teacher, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, errorCode(t, w))

	w = h.do(http.MethodGet, "/api/v1/students", teacher, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEnrollStudentsRoute(t *testing.T) {
	h := newHarness(t)
	admin := h.token(t, models.RoleAdmin, 0)

	w := h.do(http.MethodPost, "/api/v1/courses/5/enrollments", admin,
		`{"year":2024,"semester":"zimski","studentIds":[3,4]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), h.enrollments.courseID)
	assert.Equal(t, 2024, h.enrollments.year)
	assert.Equal(t, "zimski", h.enrollments.semester)
	assert.Equal(t, []int64{3, 4}, h.enrollments.ids)
	assert.Contains(t, w.Body.String(), `"semester":"Winter"`)

	w = h.do(http.MethodPost, "/api/v1/courses/5/enrollments", admin, `{"semester":"Winter"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errorCode(t, w))

	student := h.token(t, models.RoleStudent, 3)
	w = h.do(http.MethodPost, "/api/v1/courses/5/enrollments", student, `{"year":2024}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGradebookRoute(t *testing.T) {
	h := newHarness(t)
	teacher := h.token(t, models.RoleTeacher, 7)

	w := h.do(http.MethodPut, "/api/v1/courses/5/gradebook", teacher,
		`{"year":2024,"edits":[{"enrollmentId":12,"grade":11}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPut, "/api/v1/courses/5/gradebook", teacher,
		`{"year":2024,"edits":[{"enrollmentId":12,"grade":9,"finishDate":"not-a-date"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPut, "/api/v1/courses/5/gradebook", teacher,
		`{"year":2024,"edits":[{"enrollmentId":12,"examPoints":50,"grade":9,"finishDate":"2025-02-01"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, h.grading.edits, 1)
	edit := h.grading.edits[0]
	assert.Equal(t, int64(12), edit.EnrollmentID)
	assert.Equal(t, 9, *edit.Grade)
	assert.Equal(t, 50, *edit.ExamPoints)
	assert.Nil(t, edit.SeminarPoints)
	require.NotNil(t, edit.FinishDate)
	assert.Equal(t, "2025-02-01", edit.FinishDate.Format("2006-01-02"))

	for _, grade := range []string{"0", "4"} {
		w = h.do(http.MethodPut, "/api/v1/courses/5/gradebook", teacher,
			`{"year":2024,"edits":[{"enrollmentId":13,"grade":`+grade+`}]}`)
		require.Equal(t, http.StatusOK, w.Code, "grade %s", grade)
		assert.Equal(t, grade, strconv.Itoa(*h.grading.edits[0].Grade))
	}

	admin := h.token(t, models.RoleAdmin, 0)
	w = h.do(http.MethodPut, "/api/v1/courses/5/gradebook", admin, `{"year":2024,"edits":[]}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
