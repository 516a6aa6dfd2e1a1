package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// CourseService defines the scoped reads and admin writes on courses
type CourseService interface {
	ListCourses(ctx context.Context, p auth.Principal, f models.CourseFilter) ([]*models.Course, error)
	GetCourse(ctx context.Context, p auth.Principal, id int64) (*dto.CourseDetailsResponse, error)
	CreateCourse(ctx context.Context, p auth.Principal, c *models.Course) error
	UpdateCourse(ctx context.Context, p auth.Principal, c *models.Course) error
	DeleteCourse(ctx context.Context, p auth.Principal, id int64) error
}

type courseServiceImpl struct {
	courses     CourseStore
	enrollments EnrollmentStore
	authz       *auth.AuthorizationService
	logger      zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(courses CourseStore, enrollments EnrollmentStore, authz *auth.AuthorizationService, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{courses: courses, enrollments: enrollments, authz: authz, logger: logger}
}

func normalizeCourse(c *models.Course) error {
	c.Title = strings.TrimSpace(c.Title)
	c.Programme = helpers.TrimToNil(c.Programme)
	c.EducationLevel = helpers.TrimToNil(c.EducationLevel)

	if c.Title == "" || len(c.Title) > validation.TitleMaxLength {
		return fmt.Errorf("%w: title is required and at most %d characters", apperrors.ErrValidationFailed, validation.TitleMaxLength)
	}
	if c.FirstTeacherID != nil && c.SecondTeacherID != nil && *c.FirstTeacherID == *c.SecondTeacherID {
		return fmt.Errorf("%w: first and second teacher must differ", apperrors.ErrValidationFailed)
	}
	return nil
}

// ListCourses lists the courses visible to p ordered by semester and title
func (s *courseServiceImpl) ListCourses(ctx context.Context, p auth.Principal, f models.CourseFilter) ([]*models.Course, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	return s.courses.ListCourses(ctx, scope, f)
}

// GetCourse returns a course with the enrollments p may see
func (s *courseServiceImpl) GetCourse(ctx context.Context, p auth.Principal, id int64) (*dto.CourseDetailsResponse, error) {
	course, err := s.authz.AuthorizeCourse(ctx, p, id)
	if err != nil {
		return nil, err
	}
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	rows, err := s.enrollments.ListEnrollments(ctx, scope, models.EnrollmentFilter{CourseID: &id})
	if err != nil {
		return nil, err
	}
	return &dto.CourseDetailsResponse{Course: course, Enrollments: rows}, nil
}

// CreateCourse inserts a course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, p auth.Principal, c *models.Course) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	if err := normalizeCourse(c); err != nil {
		return err
	}
	if err := s.courses.CreateCourse(ctx, c); err != nil {
		return err
	}
	s.logger.Info().Int64("courseID", c.ID).Str("title", c.Title).Msg("Course created")
	return nil
}

// UpdateCourse overwrites a course
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, p auth.Principal, c *models.Course) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	if err := normalizeCourse(c); err != nil {
		return err
	}
	return s.courses.UpdateCourse(ctx, c)
}

// DeleteCourse removes a course and its enrollments
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, p auth.Principal, id int64) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	if err := s.courses.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}
