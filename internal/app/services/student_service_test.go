package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/auth"
)

func TestStudentService_CreateWithAccountAndImage(t *testing.T) {
	m := newMemStore()
	storage := &memStorage{}
	svc := NewStudentService(m, m, storage, nopLogger)
	ctx := context.Background()

	st := &models.Student{Index: " 2024/001 ", FirstName: "Ana", LastName: "Petrova"}
	err := svc.CreateStudent(ctx, admin, st, Credentials{Email: "Ana@Example.com", Password: "secret1"},
		&multipart.FileHeader{Filename: "ana.png"})
	require.NoError(t, err)

	assert.Equal(t, "2024/001", st.Index)
	require.NotNil(t, st.ProfileImagePath)
	assert.Equal(t, "/uploads/students/ana.png", *st.ProfileImagePath)

	acct, err := m.GetAccountByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, acct.Role)
	assert.Equal(t, st.ID, *acct.StudentID)
	assert.True(t, auth.CheckPassword(acct.PasswordHash, "secret1"))

	dup := &models.Student{Index: "2024/002", FirstName: "B", LastName: "C"}
	err = svc.CreateStudent(ctx, admin, dup, Credentials{Email: "ana@example.com", Password: "secret1"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	dup = &models.Student{Index: "2024/001", FirstName: "B", LastName: "C"}
	err = svc.CreateStudent(ctx, admin, dup, Credentials{}, nil)
	assert.ErrorIs(t, err, apperrors.ErrStudentIndexExists)
}

func TestStudentService_Validation(t *testing.T) {
	m := newMemStore()
	storage := &memStorage{}
	svc := NewStudentService(m, m, storage, nopLogger)
	ctx := context.Background()

	tests := []struct {
		name  string
		st    *models.Student
		creds Credentials
		image *multipart.FileHeader
	}{
		{"bad index", &models.Student{Index: "too long index", FirstName: "A", LastName: "B"}, Credentials{}, nil},
		{"missing name", &models.Student{Index: "1", FirstName: " ", LastName: "B"}, Credentials{}, nil},
		{"short password", &models.Student{Index: "1", FirstName: "A", LastName: "B"}, Credentials{Email: "a@b.c", Password: "123"}, nil},
		{"bad image", &models.Student{Index: "1", FirstName: "A", LastName: "B"}, Credentials{}, &multipart.FileHeader{Filename: "a.gif"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CreateStudent(ctx, admin, tt.st, tt.creds, tt.image)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
	assert.Empty(t, m.students)
	assert.Empty(t, storage.saved)

	err := svc.CreateStudent(ctx, teacher(1), &models.Student{Index: "1", FirstName: "A", LastName: "B"}, Credentials{}, nil)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestStudentService_UpdateVersionAndImage(t *testing.T) {
	m := newMemStore()
	storage := &memStorage{}
	svc := NewStudentService(m, m, storage, nopLogger)
	ctx := context.Background()

	st := &models.Student{Index: "1", FirstName: "A", LastName: "B", ProfileImagePath: strp("/uploads/students/old.png")}
	require.NoError(t, m.CreateStudent(ctx, st, nil))

	upd := &models.Student{ID: st.ID, Index: "1", FirstName: "Ana", LastName: "B", Version: 1}
	require.NoError(t, svc.UpdateStudent(ctx, admin, upd, &multipart.FileHeader{Filename: "new.webp"}))
	assert.Equal(t, 2, m.students[st.ID].Version)
	assert.Equal(t, "/uploads/students/new.webp", *m.students[st.ID].ProfileImagePath)
	assert.Equal(t, []string{"/uploads/students/old.png"}, storage.deleted)

	stale := &models.Student{ID: st.ID, Index: "1", FirstName: "Stale", LastName: "B", Version: 1}
	err := svc.UpdateStudent(ctx, admin, stale, nil)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "Ana", m.students[st.ID].FirstName)

	keep := &models.Student{ID: st.ID, Index: "1", FirstName: "Ana", LastName: "Bojan", Version: 2}
	require.NoError(t, svc.UpdateStudent(ctx, admin, keep, nil))
	assert.Equal(t, "/uploads/students/new.webp", *m.students[st.ID].ProfileImagePath, "image kept without upload")

	require.NoError(t, svc.DeleteStudent(ctx, admin, st.ID))
	assert.Contains(t, storage.deleted, "/uploads/students/new.webp")
	assert.ErrorIs(t, svc.DeleteStudent(ctx, admin, st.ID), apperrors.ErrResourceNotFound)
}
