package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// CourseLookup is the read access authorization needs
type CourseLookup interface {
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	StudentHasEnrollment(ctx context.Context, courseID, studentID int64) (bool, error)
}

// EnrollmentLookup loads a single enrollment
type EnrollmentLookup interface {
	GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error)
}

// AuthorizationService answers resource-level access questions
type AuthorizationService struct {
	courses     CourseLookup
	enrollments EnrollmentLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(courses CourseLookup, enrollments EnrollmentLookup) *AuthorizationService {
	return &AuthorizationService{courses: courses, enrollments: enrollments}
}

// AuthorizeCourse loads a course and checks the principal may see it
func (s *AuthorizationService) AuthorizeCourse(ctx context.Context, p Principal, courseID int64) (*models.Course, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled := false
	if scope.StudentID != nil {
		enrolled, err = s.courses.StudentHasEnrollment(ctx, courseID, *scope.StudentID)
		if err != nil {
			logger.Error().Err(err).Int64("courseID", courseID).Msg("Error checking enrollment for authorization")
			return nil, fmt.Errorf("error checking enrollment: %w", err)
		}
	}

	if !scope.AllowsCourse(course, enrolled) {
		return nil, apperrors.NewForbiddenError("you do not have access to this course")
	}
	return course, nil
}

// AuthorizeTeacherOf loads a course and checks the principal is one of its teachers
func (s *AuthorizationService) AuthorizeTeacherOf(ctx context.Context, p Principal, courseID int64) (*models.Course, error) {
	teacherID, err := p.RequireTeacher()
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !course.TaughtBy(teacherID) {
		return nil, ErrNotCourseStaff
	}
	return course, nil
}

// AuthorizeOwnEnrollment loads an enrollment and checks it belongs to the student principal
func (s *AuthorizationService) AuthorizeOwnEnrollment(ctx context.Context, p Principal, enrollmentID int64) (*models.Enrollment, error) {
	studentID, err := p.RequireStudent()
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollments.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, err
	}

	if enrollment.StudentID != studentID {
		return nil, ErrNotOwner
	}
	return enrollment, nil
}
