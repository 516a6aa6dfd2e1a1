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
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

const studentsIndexKey = "students_student_index_key"

var studentColumns = []string{
	"s.id", "s.student_index", "s.first_name", "s.last_name", "s.enrollment_date",
	"s.acquired_credits", "s.current_semester", "s.education_level", "s.profile_image_path", "s.version",
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.Index, &s.FirstName, &s.LastName, &s.EnrollmentDate,
		&s.AcquiredCredits, &s.CurrentSemester, &s.EducationLevel, &s.ProfileImagePath, &s.Version,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error scanning student: %w", err)
	}
	return &s, nil
}

func collectStudents(rows pgx.Rows) ([]*models.Student, error) {
	defer rows.Close()
	students := make([]*models.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return students, nil
}

func studentFilterCond(f models.StudentFilter) squirrel.And {
	cond := squirrel.And{}
	if f.Index != "" {
		cond = append(cond, squirrel.ILike{"s.student_index": helpers.Contains(f.Index)})
	}
	if f.FirstName != "" {
		cond = append(cond, squirrel.ILike{"s.first_name": helpers.Contains(f.FirstName)})
	}
	if f.LastName != "" {
		cond = append(cond, squirrel.ILike{"s.last_name": helpers.Contains(f.LastName)})
	}
	if f.CourseID != nil {
		cond = append(cond, squirrel.Expr(
			"s.id IN (SELECT fe.student_id FROM enrollments fe WHERE fe.course_id = ?)", *f.CourseID,
		))
	}
	return cond
}

// ListStudents returns a filtered page of students ordered by index, plus the total count
func (r *StudentRepository) ListStudents(ctx context.Context, f models.StudentFilter) ([]*models.Student, int64, error) {
	cond := studentFilterCond(f)

	countSQL, countArgs, err := psql.Select("count(*)").From("students s").Where(cond).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}
	if total == 0 {
		return []*models.Student{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(f.Page, f.Size)
	sqlStr, args, err := psql.Select(studentColumns...).From("students s").Where(cond).
		OrderBy("s.student_index").
		Limit(limit).Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	students, err := collectStudents(rows)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// GetStudentByID retrieves a student by ID
func (r *StudentRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	sqlStr, args, err := psql.Select(studentColumns...).From("students s").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanStudent(r.db.QueryRow(ctx, sqlStr, args...))
}

// ListStudentsByEnrollmentYear returns the students whose studies started in
// year, ordered by last and first name.
func (r *StudentRepository) ListStudentsByEnrollmentYear(ctx context.Context, year int) ([]*models.Student, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	sqlStr, args, err := psql.Select(studentColumns...).From("students s").
		Where(squirrel.GtOrEq{"s.enrollment_date": from}).
		Where(squirrel.Lt{"s.enrollment_date": from.AddDate(1, 0, 0)}).
		OrderBy("s.last_name", "s.first_name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students by enrollment year: %w", err)
	}
	return collectStudents(rows)
}

// ListStudentsByIDs returns the given students ordered by last and first name
func (r *StudentRepository) ListStudentsByIDs(ctx context.Context, ids []int64) ([]*models.Student, error) {
	if len(ids) == 0 {
		return []*models.Student{}, nil
	}
	sqlStr, args, err := psql.Select(studentColumns...).From("students s").
		Where(squirrel.Eq{"s.id": ids}).
		OrderBy("s.last_name", "s.first_name").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students by id: %w", err)
	}
	return collectStudents(rows)
}

// StudentIndexExists reports whether another student already uses index
func (r *StudentRepository) StudentIndexExists(ctx context.Context, index string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM students WHERE student_index = $1 AND id <> $2)",
		index, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student index: %w", err)
	}
	return exists, nil
}

// CreateStudent inserts s and, when acct is given, its linked account in
// the same transaction.
func (r *StudentRepository) CreateStudent(ctx context.Context, s *models.Student, acct *models.Account) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sqlStr, args, err := psql.Insert("students").
			Columns("student_index", "first_name", "last_name", "enrollment_date",
				"acquired_credits", "current_semester", "education_level", "profile_image_path").
			Values(s.Index, s.FirstName, s.LastName, s.EnrollmentDate,
				s.AcquiredCredits, s.CurrentSemester, s.EducationLevel, s.ProfileImagePath).
			Suffix("RETURNING id, version").
			ToSql()
		if err != nil {
			return err
		}

		if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&s.ID, &s.Version); err != nil {
			if dberrors.IsDuplicateConstraintError(err, studentsIndexKey) {
				return apperrors.ErrStudentIndexExists
			}
			logger.Error().Err(err).Str("index", s.Index).Msg("Error inserting student")
			return fmt.Errorf("error inserting student: %w", err)
		}

		if acct == nil {
			return nil
		}
		acct.Role = models.RoleStudent
		acct.StudentID = &s.ID
		return insertAccount(ctx, tx, acct)
	})
}

// UpdateStudent writes s if its version still matches the stored one and
// bumps the version.
func (r *StudentRepository) UpdateStudent(ctx context.Context, s *models.Student) error {
	sqlStr, args, err := psql.Update("students").
		Set("student_index", s.Index).
		Set("first_name", s.FirstName).
		Set("last_name", s.LastName).
		Set("enrollment_date", s.EnrollmentDate).
		Set("acquired_credits", s.AcquiredCredits).
		Set("current_semester", s.CurrentSemester).
		Set("education_level", s.EducationLevel).
		Set("profile_image_path", s.ProfileImagePath).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": s.ID, "version": s.Version}).
		Suffix("RETURNING version").
		ToSql()
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&s.Version)
	switch {
	case err == nil:
		return nil
	case isNoRows(err):
		return r.versionMiss(ctx, s.ID)
	case dberrors.IsDuplicateConstraintError(err, studentsIndexKey):
		return apperrors.ErrStudentIndexExists
	}
	logger.Error().Err(err).Int64("studentID", s.ID).Msg("Error updating student")
	return fmt.Errorf("error updating student: %w", err)
}

// versionMiss tells a stale write apart from a deleted row
func (r *StudentRepository) versionMiss(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)", id).Scan(&exists); err != nil {
		return fmt.Errorf("error checking student existence: %w", err)
	}
	if exists {
		return apperrors.ErrConcurrentUpdate
	}
	return apperrors.ErrStudentNotFound
}

// UpdateStudentImage replaces the stored profile image path
func (r *StudentRepository) UpdateStudentImage(ctx context.Context, id int64, path *string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE students SET profile_image_path = $1, version = version + 1 WHERE id = $2",
		path, id,
	)
	if err != nil {
		return fmt.Errorf("error updating student image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// DeleteStudent removes the student's accounts and the student in one
// transaction. Enrollments go with it through the foreign key cascade.
func (r *StudentRepository) DeleteStudent(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := deleteAccountsFor(ctx, tx, "student_id", id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, "DELETE FROM students WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("error deleting student: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}
		return nil
	})
}
