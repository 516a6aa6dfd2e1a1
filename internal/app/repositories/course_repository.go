package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/dberrors"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

// selectCourseQuery selects courses with both teachers' names joined in
func selectCourseQuery() squirrel.SelectBuilder {
	return psql.Select(
		"c.id", "c.title", "c.credits", "c.semester", "c.programme", "c.education_level",
		"c.first_teacher_id", "c.second_teacher_id",
		"ft.first_name", "ft.last_name", "st.first_name", "st.last_name",
	).From("courses c").
		LeftJoin("teachers ft ON ft.id = c.first_teacher_id").
		LeftJoin("teachers st ON st.id = c.second_teacher_id")
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var (
		c               models.Course
		ftFirst, ftLast *string
		stFirst, stLast *string
	)
	err := row.Scan(
		&c.ID, &c.Title, &c.Credits, &c.Semester, &c.Programme, &c.EducationLevel,
		&c.FirstTeacherID, &c.SecondTeacherID,
		&ftFirst, &ftLast, &stFirst, &stLast,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error scanning course: %w", err)
	}
	c.FirstTeacher = teacherRef(c.FirstTeacherID, ftFirst, ftLast)
	c.SecondTeacher = teacherRef(c.SecondTeacherID, stFirst, stLast)
	return &c, nil
}

func teacherRef(id *int64, first, last *string) *models.Teacher {
	if id == nil || first == nil || last == nil {
		return nil
	}
	return &models.Teacher{ID: *id, FirstName: *first, LastName: *last}
}

func courseFilterCond(f models.CourseFilter) squirrel.And {
	cond := squirrel.And{}
	if f.Title != "" {
		cond = append(cond, squirrel.ILike{"c.title": helpers.Contains(f.Title)})
	}
	if f.Semester != nil {
		cond = append(cond, squirrel.Eq{"c.semester": *f.Semester})
	}
	if f.Programme != "" {
		cond = append(cond, squirrel.ILike{"c.programme": helpers.Contains(f.Programme)})
	}
	if f.TeacherID != nil {
		cond = append(cond, squirrel.Or{
			squirrel.Eq{"c.first_teacher_id": *f.TeacherID},
			squirrel.Eq{"c.second_teacher_id": *f.TeacherID},
		})
	}
	return cond
}

// ListCourses returns the courses visible to scope that match f, ordered by
// semester and title.
func (r *CourseRepository) ListCourses(ctx context.Context, scope models.Scope, f models.CourseFilter) ([]*models.Course, error) {
	b := applyScope(selectCourseQuery(), courseScopeCond(scope)).
		Where(courseFilterCond(f)).
		OrderBy("c.semester", "c.title")
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing courses")
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return courses, nil
}

// GetCourseByID retrieves a course by ID regardless of scope
func (r *CourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	sqlStr, args, err := selectCourseQuery().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanCourse(r.db.QueryRow(ctx, sqlStr, args...))
}

// StudentHasEnrollment reports whether the student holds any row for the course
func (r *CourseRepository) StudentHasEnrollment(ctx context.Context, courseID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2)",
		courseID, studentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// CreateCourse inserts a course
func (r *CourseRepository) CreateCourse(ctx context.Context, c *models.Course) error {
	sqlStr, args, err := psql.Insert("courses").
		Columns("title", "credits", "semester", "programme", "education_level", "first_teacher_id", "second_teacher_id").
		Values(c.Title, c.Credits, c.Semester, c.Programme, c.EducationLevel, c.FirstTeacherID, c.SecondTeacherID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&c.ID); err != nil {
		return mapCourseWriteError(err)
	}
	return nil
}

// UpdateCourse overwrites a course
func (r *CourseRepository) UpdateCourse(ctx context.Context, c *models.Course) error {
	sqlStr, args, err := psql.Update("courses").
		Set("title", c.Title).
		Set("credits", c.Credits).
		Set("semester", c.Semester).
		Set("programme", c.Programme).
		Set("education_level", c.EducationLevel).
		Set("first_teacher_id", c.FirstTeacherID).
		Set("second_teacher_id", c.SecondTeacherID).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return mapCourseWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// DeleteCourse deletes a course; its enrollments cascade
func (r *CourseRepository) DeleteCourse(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

func mapCourseWriteError(err error) error {
	if dberrors.IsForeignKeyError(err) {
		return apperrors.NewValidationError("referenced teacher does not exist")
	}
	logger.Error().Err(err).Msg("Error writing course")
	return fmt.Errorf("error writing course: %w", err)
}
