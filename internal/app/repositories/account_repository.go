package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/dberrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

const accountsEmailKey = "accounts_email_key"

var accountColumns = []string{"id", "email", "password_hash", "role", "teacher_id", "student_id", "created_at"}

// AccountRepository handles database operations for login accounts
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.TeacherID, &a.StudentID, &a.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error scanning account: %w", err)
	}
	return &a, nil
}

// GetAccountByEmail looks an account up by its case-insensitive email
func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	sqlStr, args, err := psql.Select(accountColumns...).From("accounts").
		Where(squirrel.Expr("lower(email) = ?", strings.ToLower(strings.TrimSpace(email)))).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanAccount(r.db.QueryRow(ctx, sqlStr, args...))
}

// GetAccountByID retrieves an account by ID
func (r *AccountRepository) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	sqlStr, args, err := psql.Select(accountColumns...).From("accounts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanAccount(r.db.QueryRow(ctx, sqlStr, args...))
}

// EmailExists checks if an email is already registered
func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE lower(email) = $1)",
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// CreateAccount inserts an account that is not linked through a person record
func (r *AccountRepository) CreateAccount(ctx context.Context, a *models.Account) error {
	return insertAccount(ctx, r.db, a)
}

// insertAccount writes a through q so it can join a caller's transaction
func insertAccount(ctx context.Context, q db.Querier, a *models.Account) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	sqlStr, args, err := psql.Insert("accounts").
		Columns("email", "password_hash", "role", "teacher_id", "student_id").
		Values(a.Email, a.PasswordHash, a.Role, a.TeacherID, a.StudentID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := q.QueryRow(ctx, sqlStr, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, accountsEmailKey) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", a.Email).Msg("Error inserting account")
		return fmt.Errorf("error inserting account: %w", err)
	}
	return nil
}

// deleteAccountsFor removes the accounts linked to a person record
func deleteAccountsFor(ctx context.Context, q db.Querier, column string, id int64) error {
	sqlStr, args, err := psql.Delete("accounts").Where(squirrel.Eq{column: id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("error deleting linked accounts: %w", err)
	}
	return nil
}
