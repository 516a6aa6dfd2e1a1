package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

// EnrollmentService defines the enrollment lifecycle and enrollment administration
type EnrollmentService interface {
	EnrollStudents(ctx context.Context, p auth.Principal, courseID int64, year int, semester string, studentIDs []int64) (*dto.EnrollStudentsResponse, error)
	DeactivateStudents(ctx context.Context, p auth.Principal, courseID int64, year int, semester string, enrollmentIDs []int64, finishDate *time.Time) (int64, error)
	EligibleStudents(ctx context.Context, p auth.Principal, courseID int64, year int, semester string) ([]*models.Student, error)
	CourseEnrollments(ctx context.Context, p auth.Principal, courseID int64, f models.EnrollmentFilter) ([]*models.Enrollment, error)
	ListEnrollments(ctx context.Context, p auth.Principal, f models.EnrollmentFilter) ([]*models.Enrollment, error)
	GetEnrollment(ctx context.Context, p auth.Principal, id int64) (*models.Enrollment, error)
	CreateEnrollment(ctx context.Context, p auth.Principal, e *models.Enrollment) error
	UpdateEnrollment(ctx context.Context, p auth.Principal, e *models.Enrollment) error
	DeleteEnrollment(ctx context.Context, p auth.Principal, id int64) error
}

type enrollmentServiceImpl struct {
	enrollments EnrollmentStore
	courses     CourseStore
	eligibility *EligibilityResolver
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(enrollments EnrollmentStore, courses CourseStore, eligibility *EligibilityResolver, logger zerolog.Logger) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollments: enrollments,
		courses:     courses,
		eligibility: eligibility,
		logger:      logger,
	}
}

// courseHistory summarizes a course's existing rows per student
type courseHistory struct {
	passed   map[int64]bool
	enrolled map[int64]bool
}

func (s *enrollmentServiceImpl) loadHistory(ctx context.Context, courseID int64) (courseHistory, error) {
	rows, err := s.enrollments.ListCourseEnrollments(ctx, courseID)
	if err != nil {
		return courseHistory{}, fmt.Errorf("error loading course enrollments: %w", err)
	}
	h := courseHistory{passed: map[int64]bool{}, enrolled: map[int64]bool{}}
	for _, e := range rows {
		h.enrolled[e.StudentID] = true
		if e.HasPassed() {
			h.passed[e.StudentID] = true
		}
	}
	return h, nil
}

// EnrollStudents enrolls the selected students that are eligible for the
// period, have not passed the course and hold no row for it yet. Everyone
// else is reported as skipped; nothing to insert is not an error.
func (s *enrollmentServiceImpl) EnrollStudents(ctx context.Context, p auth.Principal, courseID int64, year int, semester string, studentIDs []int64) (*dto.EnrollStudentsResponse, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}

	sem := models.NormalizeSemester(semester)
	result := &dto.EnrollStudentsResponse{
		Semester:        sem,
		Year:            year,
		Enrolled:        []int64{},
		Ineligible:      []int64{},
		AlreadyPassed:   []int64{},
		AlreadyEnrolled: []int64{},
	}
	if len(studentIDs) == 0 {
		return result, nil
	}

	if _, err := s.courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	eligible, err := s.eligibility.EligibleIDs(ctx, year, sem)
	if err != nil {
		return nil, err
	}
	history, err := s.loadHistory(ctx, courseID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(studentIDs))
	final := make([]int64, 0, len(studentIDs))
	for _, id := range studentIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		switch {
		case !contains(eligible, id):
			result.Ineligible = append(result.Ineligible, id)
		case history.passed[id]:
			result.AlreadyPassed = append(result.AlreadyPassed, id)
		case history.enrolled[id]:
			result.AlreadyEnrolled = append(result.AlreadyEnrolled, id)
		default:
			final = append(final, id)
		}
	}

	if len(final) == 0 {
		return result, nil
	}

	inserted, err := s.enrollments.InsertEnrollments(ctx, courseID, year, sem, final)
	if err != nil {
		return nil, err
	}

	// rows added concurrently since the history was read are skipped by the store
	done := make(map[int64]bool, len(inserted))
	for _, id := range inserted {
		done[id] = true
	}
	for _, id := range final {
		if done[id] {
			result.Enrolled = append(result.Enrolled, id)
		} else {
			result.AlreadyEnrolled = append(result.AlreadyEnrolled, id)
		}
	}

	s.logger.Info().
		Int64("courseID", courseID).
		Int("year", year).
		Str("semester", sem.String()).
		Int("enrolled", len(result.Enrolled)).
		Msg("Students enrolled")
	return result, nil
}

// DeactivateStudents sets the finish date of the selected rows of one period.
// Existing finish dates are overwritten.
func (s *enrollmentServiceImpl) DeactivateStudents(ctx context.Context, p auth.Principal, courseID int64, year int, semester string, enrollmentIDs []int64, finishDate *time.Time) (int64, error) {
	if err := p.RequireAdmin(); err != nil {
		return 0, err
	}

	sem := models.NormalizeSemester(semester)
	if len(enrollmentIDs) == 0 {
		return 0, nil
	}

	updated, err := s.enrollments.FinishEnrollments(ctx, courseID, year, sem, enrollmentIDs, finishDate)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("courseID", courseID).Int64("updated", updated).Msg("Enrollments deactivated")
	return updated, nil
}

// EligibleStudents lists the students that could still be enrolled in the
// course for the period: eligible and not having passed it.
func (s *enrollmentServiceImpl) EligibleStudents(ctx context.Context, p auth.Principal, courseID int64, year int, semester string) ([]*models.Student, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	if _, err := s.courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}

	students, err := s.eligibility.EligibleStudents(ctx, year, models.NormalizeSemester(semester))
	if err != nil {
		return nil, err
	}
	history, err := s.loadHistory(ctx, courseID)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Student, 0, len(students))
	for _, st := range students {
		if !history.passed[st.ID] {
			out = append(out, st)
		}
	}
	return out, nil
}

// CourseEnrollments is the admin listing of one course's rows
func (s *enrollmentServiceImpl) CourseEnrollments(ctx context.Context, p auth.Principal, courseID int64, f models.EnrollmentFilter) ([]*models.Enrollment, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	if _, err := s.courses.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	f.CourseID = &courseID
	return s.enrollments.ListEnrollments(ctx, models.Unrestricted, f)
}

// ListEnrollments lists the enrollments visible to p
func (s *enrollmentServiceImpl) ListEnrollments(ctx context.Context, p auth.Principal, f models.EnrollmentFilter) ([]*models.Enrollment, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	return s.enrollments.ListEnrollments(ctx, scope, f)
}

// GetEnrollment returns a single enrollment visible to p
func (s *enrollmentServiceImpl) GetEnrollment(ctx context.Context, p auth.Principal, id int64) (*models.Enrollment, error) {
	scope, err := p.Scope()
	if err != nil {
		return nil, err
	}
	e, err := s.enrollments.GetEnrollmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsEnrollment(e, e.Course) {
		return nil, apperrors.NewForbiddenError("you do not have access to this enrollment")
	}
	return e, nil
}

// CreateEnrollment inserts a single row after checking the pair is free
func (s *enrollmentServiceImpl) CreateEnrollment(ctx context.Context, p auth.Principal, e *models.Enrollment) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	e.Semester = models.NormalizeSemester(string(e.Semester))

	exists, err := s.enrollments.EnrollmentExists(ctx, e.CourseID, e.StudentID, 0)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrEnrollmentExists
	}
	return s.enrollments.CreateEnrollment(ctx, e)
}

// UpdateEnrollment overwrites a single row; the last write wins
func (s *enrollmentServiceImpl) UpdateEnrollment(ctx context.Context, p auth.Principal, e *models.Enrollment) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	e.Semester = models.NormalizeSemester(string(e.Semester))

	if _, err := s.enrollments.GetEnrollmentByID(ctx, e.ID); err != nil {
		return err
	}
	exists, err := s.enrollments.EnrollmentExists(ctx, e.CourseID, e.StudentID, e.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrEnrollmentExists
	}
	return s.enrollments.UpdateEnrollment(ctx, e)
}

// DeleteEnrollment removes a single row
func (s *enrollmentServiceImpl) DeleteEnrollment(ctx context.Context, p auth.Principal, id int64) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	return s.enrollments.DeleteEnrollment(ctx, id)
}

func contains(set map[int64]struct{}, id int64) bool {
	_, ok := set[id]
	return ok
}
