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

// Credentials are the optional login details created with a person record
type Credentials struct {
	Email    string
	Password string
}

// StudentService defines the administration of students
type StudentService interface {
	ListStudents(ctx context.Context, p auth.Principal, f models.StudentFilter) (*dto.PagedResponse, error)
	GetStudent(ctx context.Context, p auth.Principal, id int64) (*models.Student, error)
	CreateStudent(ctx context.Context, p auth.Principal, s *models.Student, creds Credentials, image *multipart.FileHeader) error
	UpdateStudent(ctx context.Context, p auth.Principal, s *models.Student, image *multipart.FileHeader) error
	DeleteStudent(ctx context.Context, p auth.Principal, id int64) error
}

type studentServiceImpl struct {
	students StudentStore
	accounts AccountStore
	storage  filestorage.FileStorage
	logger   zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(students StudentStore, accounts AccountStore, storage filestorage.FileStorage, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{students: students, accounts: accounts, storage: storage, logger: logger}
}

func (s *studentServiceImpl) validateStudent(ctx context.Context, st *models.Student) error {
	st.Index = strings.TrimSpace(st.Index)
	st.FirstName = strings.TrimSpace(st.FirstName)
	st.LastName = strings.TrimSpace(st.LastName)
	st.EducationLevel = helpers.TrimToNil(st.EducationLevel)

	if !validation.IsValidStudentIndex(st.Index) {
		return fmt.Errorf("%w: index must be 1-10 letters, digits, '/' or '-'", apperrors.ErrValidationFailed)
	}
	if st.FirstName == "" || st.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", apperrors.ErrValidationFailed)
	}

	taken, err := s.students.StudentIndexExists(ctx, st.Index, st.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrStudentIndexExists
	}
	return nil
}

// ListStudents returns a page of students ordered by index
func (s *studentServiceImpl) ListStudents(ctx context.Context, p auth.Principal, f models.StudentFilter) (*dto.PagedResponse, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	students, total, err := s.students.ListStudents(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.PagedResponse{
		Items:      students,
		Pagination: helpers.NewPaginationInfo(total, f.Page, f.Size),
	}, nil
}

// GetStudent retrieves a student by ID
func (s *studentServiceImpl) GetStudent(ctx context.Context, p auth.Principal, id int64) (*models.Student, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.students.GetStudentByID(ctx, id)
}

// CreateStudent stores a new student with an optional account and image
func (s *studentServiceImpl) CreateStudent(ctx context.Context, p auth.Principal, st *models.Student, creds Credentials, image *multipart.FileHeader) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	st.ID = 0
	if err := s.validateStudent(ctx, st); err != nil {
		return err
	}
	acct, err := newLinkedAccount(ctx, s.accounts, creds.Email, creds.Password)
	if err != nil {
		return err
	}

	if st.ProfileImagePath, err = saveProfileImage(s.storage, image, validation.StudentImagesFolder); err != nil {
		return err
	}
	if err := s.students.CreateStudent(ctx, st, acct); err != nil {
		discardFile(s.storage, s.logger, st.ProfileImagePath)
		return err
	}

	s.logger.Info().Int64("studentID", st.ID).Str("index", st.Index).Msg("Student created")
	return nil
}

// UpdateStudent overwrites a student if the version still matches. A new
// image replaces the stored one.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, p auth.Principal, st *models.Student, image *multipart.FileHeader) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	current, err := s.students.GetStudentByID(ctx, st.ID)
	if err != nil {
		return err
	}
	if err := s.validateStudent(ctx, st); err != nil {
		return err
	}

	st.ProfileImagePath = current.ProfileImagePath
	newImage, err := saveProfileImage(s.storage, image, validation.StudentImagesFolder)
	if err != nil {
		return err
	}
	if newImage != nil {
		st.ProfileImagePath = newImage
	}

	if err := s.students.UpdateStudent(ctx, st); err != nil {
		discardFile(s.storage, s.logger, newImage)
		return err
	}
	if newImage != nil {
		discardFile(s.storage, s.logger, current.ProfileImagePath)
	}
	return nil
}

// DeleteStudent removes the student, their account, enrollments and image
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, p auth.Principal, id int64) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	current, err := s.students.GetStudentByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.students.DeleteStudent(ctx, id); err != nil {
		return err
	}
	discardFile(s.storage, s.logger, current.ProfileImagePath)
	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}
