package services

import (
	"context"
	"mime/multipart"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/filestorage"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// GradingService defines the teacher and student write paths on enrollments
type GradingService interface {
	Gradebook(ctx context.Context, p auth.Principal, courseID int64, year *int) (*dto.GradebookResponse, error)
	UpdateGrades(ctx context.Context, p auth.Principal, courseID int64, year int, edits []models.GradeEdit) (*dto.GradebookUpdateResponse, error)
	StudentStanding(ctx context.Context, p auth.Principal, courseID int64, year *int) (*dto.StandingResponse, error)
	UpdateSubmission(ctx context.Context, p auth.Principal, enrollmentID int64, projectURL string, seminar *multipart.FileHeader) (*models.Enrollment, error)
}

type gradingServiceImpl struct {
	enrollments EnrollmentStore
	courses     CourseStore
	authz       *auth.AuthorizationService
	storage     filestorage.FileStorage
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService creates a new grading service instance
func NewGradingService(
	enrollments EnrollmentStore,
	courses CourseStore,
	authz *auth.AuthorizationService,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) GradingService {
	return &gradingServiceImpl{
		enrollments: enrollments,
		courses:     courses,
		authz:       authz,
		storage:     storage,
		logger:      logger,
		now:         time.Now,
	}
}

// Gradebook returns the course rows of one year ordered by student index,
// plus every year the course has rows for. With no year given the most
// recent one is shown.
func (s *gradingServiceImpl) Gradebook(ctx context.Context, p auth.Principal, courseID int64, year *int) (*dto.GradebookResponse, error) {
	course, err := s.authz.AuthorizeTeacherOf(ctx, p, courseID)
	if err != nil {
		return nil, err
	}

	years, err := s.enrollments.EnrollmentYears(ctx, courseID, nil)
	if err != nil {
		return nil, err
	}

	selected := s.now().Year()
	switch {
	case year != nil:
		selected = *year
	case len(years) > 0:
		selected = years[0]
	}
	years = withYear(years, selected)

	rows, err := s.enrollments.ListEnrollments(ctx, models.Unrestricted, models.EnrollmentFilter{
		CourseID: &courseID,
		Year:     &selected,
		Order:    models.OrderByStudentIndex,
	})
	if err != nil {
		return nil, err
	}

	return &dto.GradebookResponse{Course: course, Year: selected, Years: years, Enrollments: rows}, nil
}

// UpdateGrades overwrites the grading fields of the course's active rows in
// year. Finished rows and ids outside the course or year are skipped.
func (s *gradingServiceImpl) UpdateGrades(ctx context.Context, p auth.Principal, courseID int64, year int, edits []models.GradeEdit) (*dto.GradebookUpdateResponse, error) {
	if _, err := s.authz.AuthorizeTeacherOf(ctx, p, courseID); err != nil {
		return nil, err
	}

	result := &dto.GradebookUpdateResponse{Updated: []int64{}, Skipped: []int64{}}
	if len(edits) == 0 {
		return result, nil
	}

	// the last edit for an id wins
	last := make(map[int64]int, len(edits))
	for i, g := range edits {
		last[g.EnrollmentID] = i
	}
	ids := make([]int64, 0, len(last))
	for i, g := range edits {
		if last[g.EnrollmentID] == i {
			ids = append(ids, g.EnrollmentID)
		}
	}
	rows, err := s.enrollments.ListEnrollmentsForGrading(ctx, courseID, year, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Enrollment, len(rows))
	for _, e := range rows {
		byID[e.ID] = e
	}

	apply := make([]models.GradeEdit, 0, len(ids))
	for i, g := range edits {
		if last[g.EnrollmentID] != i {
			continue
		}
		e, ok := byID[g.EnrollmentID]
		if !ok || !e.IsActive() {
			result.Skipped = append(result.Skipped, g.EnrollmentID)
			continue
		}
		apply = append(apply, g)
		result.Updated = append(result.Updated, g.EnrollmentID)
	}

	if err := s.enrollments.SaveGrades(ctx, apply); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("courseID", courseID).
		Int("year", year).
		Int("updated", len(result.Updated)).
		Int("skipped", len(result.Skipped)).
		Msg("Grades saved")
	return result, nil
}

// StudentStanding returns the caller's own rows for a course in one year.
// An unknown or missing year falls back to the most recent one.
func (s *gradingServiceImpl) StudentStanding(ctx context.Context, p auth.Principal, courseID int64, year *int) (*dto.StandingResponse, error) {
	studentID, err := p.RequireStudent()
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	years, err := s.enrollments.EnrollmentYears(ctx, courseID, &studentID)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return nil, apperrors.ErrNotEnrolled
	}

	selected := years[0]
	if year != nil && containsYear(years, *year) {
		selected = *year
	}

	rows, err := s.enrollments.ListEnrollments(ctx, models.ForStudent(studentID), models.EnrollmentFilter{
		CourseID:  &courseID,
		StudentID: &studentID,
		Year:      &selected,
	})
	if err != nil {
		return nil, err
	}

	return &dto.StandingResponse{Course: course, Year: selected, Years: years, Enrollments: rows}, nil
}

// UpdateSubmission stores the student's project link and, when given, a
// new seminar paper that replaces the previous one. Finished rows accept
// submissions too.
func (s *gradingServiceImpl) UpdateSubmission(ctx context.Context, p auth.Principal, enrollmentID int64, projectURL string, seminar *multipart.FileHeader) (*models.Enrollment, error) {
	e, err := s.authz.AuthorizeOwnEnrollment(ctx, p, enrollmentID)
	if err != nil {
		return nil, err
	}

	if seminar != nil {
		if err := filestorage.ValidateExtension(seminar, validation.SeminarExtensions); err != nil {
			return nil, err
		}
	}

	e.ProjectURL = helpers.TrimToNil(&projectURL)

	if seminar != nil {
		path, err := s.storage.SaveFileWithPath(seminar, validation.SeminarFolder)
		if err != nil {
			return nil, err
		}
		// the previous paper goes only once its replacement is stored
		discardFile(s.storage, s.logger, e.SeminarURL)
		e.SeminarURL = &path
	}

	if err := s.enrollments.UpdateSubmission(ctx, e.ID, e.ProjectURL, e.SeminarURL); err != nil {
		return nil, err
	}
	return e, nil
}

func containsYear(years []int, year int) bool {
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}

// withYear adds year to a newest-first list if it is missing
func withYear(years []int, year int) []int {
	if containsYear(years, year) {
		return years
	}
	out := append(append([]int{}, years...), year)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
