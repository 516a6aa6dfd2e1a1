package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

func TestTeacherService_AdminOnly(t *testing.T) {
	m := newMemStore()
	svc := NewTeacherService(m, m, &memStorage{}, nopLogger)
	ctx := context.Background()

	_, err := svc.ListTeachers(ctx, teacher(1), models.TeacherFilter{Page: 1, Size: 10})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = svc.CreateTeacher(ctx, student(1), &models.Teacher{FirstName: "A", LastName: "B"}, Credentials{}, nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, m.teachers)
}

func TestTeacherService_CreateAndUpdate(t *testing.T) {
	m := newMemStore()
	storage := &memStorage{}
	svc := NewTeacherService(m, m, storage, nopLogger)
	ctx := context.Background()

	rank := "  "
	tc := &models.Teacher{FirstName: " Ivan ", LastName: "Petrovski", AcademicRank: &rank}
	require.NoError(t, svc.CreateTeacher(ctx, admin, tc, Credentials{Email: "ivan@rsweb.com", Password: "secret1"},
		&multipart.FileHeader{Filename: "ivan.jpg"}))
	assert.Equal(t, "Ivan", tc.FirstName)
	assert.Nil(t, tc.AcademicRank)
	require.NotNil(t, tc.ProfileImagePath)
	assert.Equal(t, "/uploads/teachers/ivan.jpg", *tc.ProfileImagePath)

	acct, err := m.GetAccountByEmail(ctx, "ivan@rsweb.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, acct.Role)
	assert.Equal(t, tc.ID, *acct.TeacherID)

	err = svc.CreateTeacher(ctx, admin, &models.Teacher{FirstName: "", LastName: "X"}, Credentials{}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	stale := &models.Teacher{ID: tc.ID, FirstName: "Ivan", LastName: "Petrov", Version: 0}
	err = svc.UpdateTeacher(ctx, admin, stale, nil)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	fresh := &models.Teacher{ID: tc.ID, FirstName: "Ivan", LastName: "Petrov", Version: 1}
	require.NoError(t, svc.UpdateTeacher(ctx, admin, fresh, &multipart.FileHeader{Filename: "new.png"}))
	assert.Equal(t, "/uploads/teachers/new.png", *fresh.ProfileImagePath)
	assert.Equal(t, []string{"/uploads/teachers/ivan.jpg"}, storage.deleted)
}

func TestTeacherService_DeleteDetachesCourses(t *testing.T) {
	m := newMemStore()
	storage := &memStorage{}
	svc := NewTeacherService(m, m, storage, nopLogger)
	ctx := context.Background()

	image := "/uploads/teachers/t.png"
	m.teachers[2] = &models.Teacher{ID: 2, FirstName: "Marija", LastName: "S", ProfileImagePath: &image}
	m.courses[1] = &models.Course{ID: 1, Title: "Databases", FirstTeacherID: i64(5), SecondTeacherID: i64(2)}
	m.courses[2] = &models.Course{ID: 2, Title: "Web", FirstTeacherID: i64(2)}

	require.NoError(t, svc.DeleteTeacher(ctx, admin, 2))
	assert.NotContains(t, m.teachers, int64(2))
	assert.Equal(t, int64(5), *m.courses[1].FirstTeacherID)
	assert.Nil(t, m.courses[1].SecondTeacherID)
	assert.Nil(t, m.courses[2].FirstTeacherID)
	assert.Equal(t, []string{image}, storage.deleted)

	err := svc.DeleteTeacher(ctx, admin, 2)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
