package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/filestorage"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// ProfileService lets teachers and students replace their own profile image
type ProfileService struct {
	teachers TeacherStore
	students StudentStore
	storage  filestorage.FileStorage
	logger   zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(teachers TeacherStore, students StudentStore, storage filestorage.FileStorage, logger zerolog.Logger) *ProfileService {
	return &ProfileService{teachers: teachers, students: students, storage: storage, logger: logger}
}

// UpdateProfileImage stores fh as the caller's profile image and returns its path
func (s *ProfileService) UpdateProfileImage(ctx context.Context, p auth.Principal, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", apperrors.NewValidationError("profile image is required")
	}

	switch p.Role {
	case models.RoleTeacher:
		teacherID, err := p.RequireTeacher()
		if err != nil {
			return "", err
		}
		t, err := s.teachers.GetTeacherByID(ctx, teacherID)
		if err != nil {
			return "", err
		}
		path, err := saveProfileImage(s.storage, fh, validation.TeacherImagesFolder)
		if err != nil {
			return "", err
		}
		if err := s.teachers.UpdateTeacherImage(ctx, teacherID, path); err != nil {
			discardFile(s.storage, s.logger, path)
			return "", err
		}
		discardFile(s.storage, s.logger, t.ProfileImagePath)
		return *path, nil

	case models.RoleStudent:
		studentID, err := p.RequireStudent()
		if err != nil {
			return "", err
		}
		st, err := s.students.GetStudentByID(ctx, studentID)
		if err != nil {
			return "", err
		}
		path, err := saveProfileImage(s.storage, fh, validation.StudentImagesFolder)
		if err != nil {
			return "", err
		}
		if err := s.students.UpdateStudentImage(ctx, studentID, path); err != nil {
			discardFile(s.storage, s.logger, path)
			return "", err
		}
		discardFile(s.storage, s.logger, st.ProfileImagePath)
		return *path, nil
	}

	return "", apperrors.NewForbiddenError("only teachers and students have a profile image")
}

// saveProfileImage validates and stores an optional image under folder
func saveProfileImage(storage filestorage.FileStorage, fh *multipart.FileHeader, folder string) (*string, error) {
	if fh == nil {
		return nil, nil
	}
	if err := filestorage.ValidateExtension(fh, validation.ProfileImageExtensions); err != nil {
		return nil, err
	}
	path, err := storage.SaveFileWithPath(fh, folder)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

// discardFile deletes a stored file; failures only leave an orphan behind
func discardFile(storage filestorage.FileStorage, logger zerolog.Logger, path *string) {
	if path == nil || *path == "" {
		return
	}
	if err := storage.DeleteFile(*path); err != nil {
		logger.Warn().Err(err).Str("path", *path).Msg("Failed to delete stored file")
	}
}
