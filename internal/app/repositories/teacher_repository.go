package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

var teacherColumns = []string{
	"t.id", "t.first_name", "t.last_name", "t.degree", "t.academic_rank",
	"t.office_number", "t.hire_date", "t.profile_image_path", "t.version",
}

// TeacherRepository handles database operations for teachers
type TeacherRepository struct {
	db *pgxpool.Pool
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var t models.Teacher
	err := row.Scan(
		&t.ID, &t.FirstName, &t.LastName, &t.Degree, &t.AcademicRank,
		&t.OfficeNumber, &t.HireDate, &t.ProfileImagePath, &t.Version,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error scanning teacher: %w", err)
	}
	return &t, nil
}

func teacherFilterCond(f models.TeacherFilter) squirrel.And {
	cond := squirrel.And{}
	if f.FirstName != "" {
		cond = append(cond, squirrel.ILike{"t.first_name": helpers.Contains(f.FirstName)})
	}
	if f.LastName != "" {
		cond = append(cond, squirrel.ILike{"t.last_name": helpers.Contains(f.LastName)})
	}
	if f.Degree != "" {
		cond = append(cond, squirrel.ILike{"t.degree": helpers.Contains(f.Degree)})
	}
	if f.AcademicRank != "" {
		cond = append(cond, squirrel.ILike{"t.academic_rank": helpers.Contains(f.AcademicRank)})
	}
	return cond
}

// ListTeachers returns a filtered page of teachers ordered by last and first name
func (r *TeacherRepository) ListTeachers(ctx context.Context, f models.TeacherFilter) ([]*models.Teacher, int64, error) {
	cond := teacherFilterCond(f)

	countSQL, countArgs, err := psql.Select("count(*)").From("teachers t").Where(cond).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting teachers: %w", err)
	}
	if total == 0 {
		return []*models.Teacher{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(f.Page, f.Size)
	sqlStr, args, err := psql.Select(teacherColumns...).From("teachers t").Where(cond).
		OrderBy("t.last_name", "t.first_name").
		Limit(limit).Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing teachers")
		return nil, 0, fmt.Errorf("error listing teachers: %w", err)
	}
	defer rows.Close()

	teachers := make([]*models.Teacher, 0)
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, 0, err
		}
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database iteration error: %w", err)
	}
	return teachers, total, nil
}

// GetTeacherByID retrieves a teacher by ID
func (r *TeacherRepository) GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error) {
	sqlStr, args, err := psql.Select(teacherColumns...).From("teachers t").
		Where(squirrel.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanTeacher(r.db.QueryRow(ctx, sqlStr, args...))
}

// CreateTeacher inserts t and, when acct is given, its linked account in
// the same transaction.
func (r *TeacherRepository) CreateTeacher(ctx context.Context, t *models.Teacher, acct *models.Account) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sqlStr, args, err := psql.Insert("teachers").
			Columns("first_name", "last_name", "degree", "academic_rank", "office_number", "hire_date", "profile_image_path").
			Values(t.FirstName, t.LastName, t.Degree, t.AcademicRank, t.OfficeNumber, t.HireDate, t.ProfileImagePath).
			Suffix("RETURNING id, version").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&t.ID, &t.Version); err != nil {
			logger.Error().Err(err).Msg("Error inserting teacher")
			return fmt.Errorf("error inserting teacher: %w", err)
		}

		if acct == nil {
			return nil
		}
		acct.Role = models.RoleTeacher
		acct.TeacherID = &t.ID
		return insertAccount(ctx, tx, acct)
	})
}

// UpdateTeacher writes t if its version still matches and bumps the version
func (r *TeacherRepository) UpdateTeacher(ctx context.Context, t *models.Teacher) error {
	sqlStr, args, err := psql.Update("teachers").
		Set("first_name", t.FirstName).
		Set("last_name", t.LastName).
		Set("degree", t.Degree).
		Set("academic_rank", t.AcademicRank).
		Set("office_number", t.OfficeNumber).
		Set("hire_date", t.HireDate).
		Set("profile_image_path", t.ProfileImagePath).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": t.ID, "version": t.Version}).
		Suffix("RETURNING version").
		ToSql()
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(&t.Version)
	if err == nil {
		return nil
	}
	if !isNoRows(err) {
		logger.Error().Err(err).Int64("teacherID", t.ID).Msg("Error updating teacher")
		return fmt.Errorf("error updating teacher: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM teachers WHERE id = $1)", t.ID).Scan(&exists); err != nil {
		return fmt.Errorf("error checking teacher existence: %w", err)
	}
	if exists {
		return apperrors.ErrConcurrentUpdate
	}
	return apperrors.ErrTeacherNotFound
}

// UpdateTeacherImage replaces the stored profile image path
func (r *TeacherRepository) UpdateTeacherImage(ctx context.Context, id int64, path *string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE teachers SET profile_image_path = $1, version = version + 1 WHERE id = $2",
		path, id,
	)
	if err != nil {
		return fmt.Errorf("error updating teacher image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTeacherNotFound
	}
	return nil
}

// DeleteTeacher detaches the teacher from every course, removes their
// accounts and then the teacher, all in one transaction.
func (r *TeacherRepository) DeleteTeacher(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "UPDATE courses SET first_teacher_id = NULL WHERE first_teacher_id = $1", id); err != nil {
			return fmt.Errorf("error detaching first teacher: %w", err)
		}
		if _, err := tx.Exec(ctx, "UPDATE courses SET second_teacher_id = NULL WHERE second_teacher_id = $1", id); err != nil {
			return fmt.Errorf("error detaching second teacher: %w", err)
		}
		if err := deleteAccountsFor(ctx, tx, "teacher_id", id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, "DELETE FROM teachers WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("error deleting teacher: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrTeacherNotFound
		}
		return nil
	})
}
