package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

type stubLookup struct {
	courses     map[int64]*models.Course
	enrollments map[int64]*models.Enrollment
}

func (s *stubLookup) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	if c, ok := s.courses[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (s *stubLookup) StudentHasEnrollment(_ context.Context, courseID, studentID int64) (bool, error) {
	for _, e := range s.enrollments {
		if e.CourseID == courseID && e.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubLookup) GetEnrollmentByID(_ context.Context, id int64) (*models.Enrollment, error) {
	if e, ok := s.enrollments[id]; ok {
		return e, nil
	}
	return nil, apperrors.NewResourceNotFoundError("enrollment not found")
}

func ptr(i int64) *int64 { return &i }

func newStub() *stubLookup {
	return &stubLookup{
		courses: map[int64]*models.Course{
			1: {ID: 1, Title: "Databases", FirstTeacherID: ptr(2)},
			2: {ID: 2, Title: "Networks", FirstTeacherID: ptr(1), SecondTeacherID: ptr(2)},
			3: {ID: 3, Title: "AI", FirstTeacherID: ptr(1)},
		},
		enrollments: map[int64]*models.Enrollment{
			10: {ID: 10, CourseID: 3, StudentID: 7},
			11: {ID: 11, CourseID: 3, StudentID: 8},
		},
	}
}

func TestPrincipal_Scope(t *testing.T) {
	tests := []struct {
		name    string
		p       Principal
		want    models.Scope
		wantErr error
	}{
		{name: "admin", p: Principal{Role: models.RoleAdmin}, want: models.Unrestricted},
		{name: "teacher", p: Principal{Role: models.RoleTeacher, TeacherID: ptr(2)}, want: models.ForTeacher(2)},
		{name: "student", p: Principal{Role: models.RoleStudent, StudentID: ptr(7)}, want: models.ForStudent(7)},
		{name: "unlinked teacher", p: Principal{Role: models.RoleTeacher}, wantErr: ErrUnlinked},
		{name: "unlinked student", p: Principal{Role: models.RoleStudent, TeacherID: ptr(1)}, wantErr: ErrUnlinked},
		{name: "unknown role", p: Principal{Role: "GUEST"}, wantErr: ErrUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.p.Scope()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
				assert.Equal(t, models.Scope{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorizeCourse(t *testing.T) {
	svc := NewAuthorizationService(newStub(), newStub())
	ctx := context.Background()
	teacher := Principal{Role: models.RoleTeacher, TeacherID: ptr(2)}
	student := Principal{Role: models.RoleStudent, StudentID: ptr(7)}

	_, err := svc.AuthorizeCourse(ctx, teacher, 1)
	assert.NoError(t, err)
	_, err = svc.AuthorizeCourse(ctx, teacher, 2)
	assert.NoError(t, err)
	_, err = svc.AuthorizeCourse(ctx, teacher, 3)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.AuthorizeCourse(ctx, student, 3)
	assert.NoError(t, err)
	_, err = svc.AuthorizeCourse(ctx, student, 1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.AuthorizeCourse(ctx, Principal{Role: models.RoleAdmin}, 99)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestAuthorizeTeacherOf(t *testing.T) {
	svc := NewAuthorizationService(newStub(), newStub())
	ctx := context.Background()

	c, err := svc.AuthorizeTeacherOf(ctx, Principal{Role: models.RoleTeacher, TeacherID: ptr(2)}, 2)
	require.NoError(t, err)
	assert.Equal(t, "Networks", c.Title)

	_, err = svc.AuthorizeTeacherOf(ctx, Principal{Role: models.RoleTeacher, TeacherID: ptr(2)}, 3)
	assert.ErrorIs(t, err, ErrNotCourseStaff)

	_, err = svc.AuthorizeTeacherOf(ctx, Principal{Role: models.RoleAdmin}, 1)
	assert.ErrorIs(t, err, ErrTeacherOnly)
}

func TestAuthorizeOwnEnrollment(t *testing.T) {
	svc := NewAuthorizationService(newStub(), newStub())
	ctx := context.Background()
	student := Principal{Role: models.RoleStudent, StudentID: ptr(7)}

	e, err := svc.AuthorizeOwnEnrollment(ctx, student, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 10, e.ID)

	_, err = svc.AuthorizeOwnEnrollment(ctx, student, 11)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.AuthorizeOwnEnrollment(ctx, student, 12)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)

	_, err = svc.AuthorizeOwnEnrollment(ctx, Principal{Role: models.RoleTeacher, TeacherID: ptr(1)}, 10)
	assert.ErrorIs(t, err, ErrStudentOnly)
}
