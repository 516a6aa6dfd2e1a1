package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/filestorage"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// TeacherService defines the administration of teachers
type TeacherService interface {
	ListTeachers(ctx context.Context, p auth.Principal, f models.TeacherFilter) (*dto.PagedResponse, error)
	GetTeacher(ctx context.Context, p auth.Principal, id int64) (*models.Teacher, error)
	CreateTeacher(ctx context.Context, p auth.Principal, t *models.Teacher, creds Credentials, image *multipart.FileHeader) error
	UpdateTeacher(ctx context.Context, p auth.Principal, t *models.Teacher, image *multipart.FileHeader) error
	DeleteTeacher(ctx context.Context, p auth.Principal, id int64) error
}

type teacherServiceImpl struct {
	teachers TeacherStore
	accounts AccountStore
	storage  filestorage.FileStorage
	logger   zerolog.Logger
}

// NewTeacherService creates a new teacher service instance
func NewTeacherService(teachers TeacherStore, accounts AccountStore, storage filestorage.FileStorage, logger zerolog.Logger) TeacherService {
	return &teacherServiceImpl{teachers: teachers, accounts: accounts, storage: storage, logger: logger}
}

func normalizeTeacher(t *models.Teacher) error {
	t.FirstName = strings.TrimSpace(t.FirstName)
	t.LastName = strings.TrimSpace(t.LastName)
	t.Degree = helpers.TrimToNil(t.Degree)
	t.AcademicRank = helpers.TrimToNil(t.AcademicRank)
	t.OfficeNumber = helpers.TrimToNil(t.OfficeNumber)
	if t.FirstName == "" || t.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", apperrors.ErrValidationFailed)
	}
	return nil
}

// ListTeachers returns a page of teachers ordered by last and first name
func (s *teacherServiceImpl) ListTeachers(ctx context.Context, p auth.Principal, f models.TeacherFilter) (*dto.PagedResponse, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	teachers, total, err := s.teachers.ListTeachers(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.PagedResponse{
		Items:      teachers,
		Pagination: helpers.NewPaginationInfo(total, f.Page, f.Size),
	}, nil
}

// GetTeacher retrieves a teacher by ID
func (s *teacherServiceImpl) GetTeacher(ctx context.Context, p auth.Principal, id int64) (*models.Teacher, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.teachers.GetTeacherByID(ctx, id)
}

// CreateTeacher stores a new teacher with an optional account and image
func (s *teacherServiceImpl) CreateTeacher(ctx context.Context, p auth.Principal, t *models.Teacher, creds Credentials, image *multipart.FileHeader) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	if err := normalizeTeacher(t); err != nil {
		return err
	}
	acct, err := newLinkedAccount(ctx, s.accounts, creds.Email, creds.Password)
	if err != nil {
		return err
	}

	if t.ProfileImagePath, err = saveProfileImage(s.storage, image, validation.TeacherImagesFolder); err != nil {
		return err
	}
	if err := s.teachers.CreateTeacher(ctx, t, acct); err != nil {
		discardFile(s.storage, s.logger, t.ProfileImagePath)
		return err
	}

	s.logger.Info().Int64("teacherID", t.ID).Msg("Teacher created")
	return nil
}

// UpdateTeacher overwrites a teacher if the version still matches
func (s *teacherServiceImpl) UpdateTeacher(ctx context.Context, p auth.Principal, t *models.Teacher, image *multipart.FileHeader) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	current, err := s.teachers.GetTeacherByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if err := normalizeTeacher(t); err != nil {
		return err
	}

	t.ProfileImagePath = current.ProfileImagePath
	newImage, err := saveProfileImage(s.storage, image, validation.TeacherImagesFolder)
	if err != nil {
		return err
	}
	if newImage != nil {
		t.ProfileImagePath = newImage
	}

	if err := s.teachers.UpdateTeacher(ctx, t); err != nil {
		discardFile(s.storage, s.logger, newImage)
		return err
	}
	if newImage != nil {
		discardFile(s.storage, s.logger, current.ProfileImagePath)
	}
	return nil
}

// DeleteTeacher detaches the teacher from their courses and removes them,
// their account and image.
func (s *teacherServiceImpl) DeleteTeacher(ctx context.Context, p auth.Principal, id int64) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	current, err := s.teachers.GetTeacherByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.teachers.DeleteTeacher(ctx, id); err != nil {
		return err
	}
	discardFile(s.storage, s.logger, current.ProfileImagePath)
	s.logger.Info().Int64("teacherID", id).Msg("Teacher deleted")
	return nil
}
