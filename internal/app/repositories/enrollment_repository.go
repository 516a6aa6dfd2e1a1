package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/dberrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

const enrollmentsCourseStudentKey = "enrollments_course_student_key"

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// selectEnrollmentQuery selects enrollments with a student and course summary
func selectEnrollmentQuery() squirrel.SelectBuilder {
	return psql.Select(
		"e.id", "e.course_id", "e.student_id", "e.semester", "e.year", "e.grade",
		"e.seminar_url", "e.project_url", "e.exam_points", "e.seminar_points",
		"e.project_points", "e.additional_points", "e.finish_date",
		"s.student_index", "s.first_name", "s.last_name",
		"c.title", "c.semester", "c.first_teacher_id", "c.second_teacher_id",
	).From("enrollments e").
		Join("students s ON s.id = e.student_id").
		Join("courses c ON c.id = e.course_id")
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var (
		e models.Enrollment
		s models.Student
		c models.Course
	)
	err := row.Scan(
		&e.ID, &e.CourseID, &e.StudentID, &e.Semester, &e.Year, &e.Grade,
		&e.SeminarURL, &e.ProjectURL, &e.ExamPoints, &e.SeminarPoints,
		&e.ProjectPoints, &e.AdditionalPoints, &e.FinishDate,
		&s.Index, &s.FirstName, &s.LastName,
		&c.Title, &c.Semester, &c.FirstTeacherID, &c.SecondTeacherID,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error scanning enrollment: %w", err)
	}
	s.ID = e.StudentID
	c.ID = e.CourseID
	e.Student = &s
	e.Course = &c
	return &e, nil
}

func collectEnrollments(rows pgx.Rows) ([]*models.Enrollment, error) {
	defer rows.Close()
	list := make([]*models.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return list, nil
}

func enrollmentFilterCond(f models.EnrollmentFilter) squirrel.And {
	cond := squirrel.And{}
	if f.CourseID != nil {
		cond = append(cond, squirrel.Eq{"e.course_id": *f.CourseID})
	}
	if f.StudentID != nil {
		cond = append(cond, squirrel.Eq{"e.student_id": *f.StudentID})
	}
	if f.Year != nil {
		cond = append(cond, squirrel.Eq{"e.year": *f.Year})
	}
	if f.Semester != nil {
		cond = append(cond, squirrel.Eq{"e.semester": *f.Semester})
	}
	if f.ActiveOnly {
		cond = append(cond, squirrel.Eq{"e.finish_date": nil})
	}
	return cond
}

func enrollmentOrder(o models.EnrollmentOrder) []string {
	if o == models.OrderByStudentIndex {
		return []string{"s.student_index", "e.id"}
	}
	return []string{"e.year DESC NULLS LAST", "e.semester", "s.last_name", "s.first_name"}
}

// ListEnrollments returns the enrollments visible to scope that match f
func (r *EnrollmentRepository) ListEnrollments(ctx context.Context, scope models.Scope, f models.EnrollmentFilter) ([]*models.Enrollment, error) {
	b := applyScope(selectEnrollmentQuery(), enrollmentScopeCond(scope)).
		Where(enrollmentFilterCond(f)).
		OrderBy(enrollmentOrder(f.Order)...)
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing enrollments")
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	return collectEnrollments(rows)
}

// GetEnrollmentByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sqlStr, args, err := selectEnrollmentQuery().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEnrollment(r.db.QueryRow(ctx, sqlStr, args...))
}

// ListCourseEnrollments returns every row of a course across all periods
func (r *EnrollmentRepository) ListCourseEnrollments(ctx context.Context, courseID int64) ([]*models.Enrollment, error) {
	return r.ListEnrollments(ctx, models.Unrestricted, models.EnrollmentFilter{CourseID: &courseID})
}

// ListEnrollmentsForGrading loads the course rows of year whose ids are in ids
func (r *EnrollmentRepository) ListEnrollmentsForGrading(ctx context.Context, courseID int64, year int, ids []int64) ([]*models.Enrollment, error) {
	if len(ids) == 0 {
		return []*models.Enrollment{}, nil
	}
	sqlStr, args, err := selectEnrollmentQuery().
		Where(squirrel.Eq{"e.course_id": courseID, "e.year": year, "e.id": ids}).
		OrderBy("e.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error loading enrollments for grading: %w", err)
	}
	return collectEnrollments(rows)
}

// InsertEnrollments enrolls the given students in one transaction and
// returns the ids of the students actually inserted.
func (r *EnrollmentRepository) InsertEnrollments(ctx context.Context, courseID int64, year int, semester models.Semester, studentIDs []int64) ([]int64, error) {
	inserted := make([]int64, 0, len(studentIDs))
	if len(studentIDs) == 0 {
		return inserted, nil
	}

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		b := psql.Insert("enrollments").Columns("course_id", "student_id", "year", "semester")
		for _, id := range studentIDs {
			b = b.Values(courseID, id, year, semester)
		}
		sqlStr, args, err := b.
			Suffix("ON CONFLICT ON CONSTRAINT " + enrollmentsCourseStudentKey + " DO NOTHING RETURNING student_id").
			ToSql()
		if err != nil {
			return err
		}

		rows, err := tx.Query(ctx, sqlStr, args...)
		if err != nil {
			return fmt.Errorf("error inserting enrollments: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return err
			}
			inserted = append(inserted, id)
		}
		return rows.Err()
	})
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error enrolling students")
		return nil, err
	}
	return inserted, nil
}

// FinishEnrollments sets finish_date on the period's rows whose ids are in
// ids, overwriting any earlier value, and returns the number of rows changed.
func (r *EnrollmentRepository) FinishEnrollments(ctx context.Context, courseID int64, year int, semester models.Semester, ids []int64, finish *time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sqlStr, args, err := psql.Update("enrollments").
		Set("finish_date", finish).
		Where(squirrel.Eq{"course_id": courseID, "year": year, "semester": semester, "id": ids}).
		ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("error finishing enrollments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SaveGrades writes every edit in one transaction
func (r *EnrollmentRepository) SaveGrades(ctx context.Context, edits []models.GradeEdit) error {
	if len(edits) == 0 {
		return nil
	}
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, g := range edits {
			sqlStr, args, err := psql.Update("enrollments").
				Set("exam_points", g.ExamPoints).
				Set("seminar_points", g.SeminarPoints).
				Set("project_points", g.ProjectPoints).
				Set("additional_points", g.AdditionalPoints).
				Set("grade", g.Grade).
				Set("finish_date", g.FinishDate).
				Where(squirrel.Eq{"id": g.EnrollmentID}).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
				return fmt.Errorf("error saving grades for enrollment %d: %w", g.EnrollmentID, err)
			}
		}
		return nil
	})
}

// UpdateSubmission stores a student's project and seminar links
func (r *EnrollmentRepository) UpdateSubmission(ctx context.Context, id int64, projectURL, seminarURL *string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE enrollments SET project_url = $1, seminar_url = $2 WHERE id = $3",
		projectURL, seminarURL, id,
	)
	if err != nil {
		return fmt.Errorf("error updating submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

// EnrollmentExists reports whether the (course, student) pair is taken by a
// row other than excludeID.
func (r *EnrollmentRepository) EnrollmentExists(ctx context.Context, courseID, studentID, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2 AND id <> $3)",
		courseID, studentID, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment pair: %w", err)
	}
	return exists, nil
}

// EnrollmentYears lists the distinct years a course has rows for, newest
// first. A non-nil studentID limits it to that student's rows.
func (r *EnrollmentRepository) EnrollmentYears(ctx context.Context, courseID int64, studentID *int64) ([]int, error) {
	b := psql.Select("DISTINCT e.year").From("enrollments e").
		Where(squirrel.Eq{"e.course_id": courseID}).
		Where(squirrel.NotEq{"e.year": nil}).
		OrderBy("e.year DESC")
	if studentID != nil {
		b = b.Where(squirrel.Eq{"e.student_id": *studentID})
	}
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollment years: %w", err)
	}
	defer rows.Close()

	years := make([]int, 0)
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// CreateEnrollment inserts a single enrollment
func (r *EnrollmentRepository) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	sqlStr, args, err := psql.Insert("enrollments").
		Columns("course_id", "student_id", "semester", "year", "grade", "seminar_url", "project_url",
			"exam_points", "seminar_points", "project_points", "additional_points", "finish_date").
		Values(e.CourseID, e.StudentID, e.Semester, e.Year, e.Grade, e.SeminarURL, e.ProjectURL,
			e.ExamPoints, e.SeminarPoints, e.ProjectPoints, e.AdditionalPoints, e.FinishDate).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&e.ID); err != nil {
		return mapEnrollmentWriteError(err)
	}
	return nil
}

// UpdateEnrollment overwrites a single enrollment
func (r *EnrollmentRepository) UpdateEnrollment(ctx context.Context, e *models.Enrollment) error {
	sqlStr, args, err := psql.Update("enrollments").
		Set("course_id", e.CourseID).
		Set("student_id", e.StudentID).
		Set("semester", e.Semester).
		Set("year", e.Year).
		Set("grade", e.Grade).
		Set("seminar_url", e.SeminarURL).
		Set("project_url", e.ProjectURL).
		Set("exam_points", e.ExamPoints).
		Set("seminar_points", e.SeminarPoints).
		Set("project_points", e.ProjectPoints).
		Set("additional_points", e.AdditionalPoints).
		Set("finish_date", e.FinishDate).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return mapEnrollmentWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

// DeleteEnrollment deletes a single enrollment
func (r *EnrollmentRepository) DeleteEnrollment(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM enrollments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

func mapEnrollmentWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, enrollmentsCourseStudentKey):
		return apperrors.ErrEnrollmentExists
	case dberrors.IsForeignKeyError(err):
		return apperrors.NewValidationError("referenced course or student does not exist")
	}
	logger.Error().Err(err).Msg("Error writing enrollment")
	return fmt.Errorf("error writing enrollment: %w", err)
}
