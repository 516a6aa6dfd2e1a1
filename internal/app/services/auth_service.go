package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/enrollment/internal/app/auth"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/auth"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// AuthService handles authentication operations
type AuthService struct {
	accounts   AccountStore
	teachers   TeacherStore
	students   StudentStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	accounts AccountStore,
	teachers TeacherStore,
	students StudentStore,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts:   accounts,
		teachers:   teachers,
		students:   students,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login verifies the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Warn().Str("email", req.Email).Msg("Login attempt for unknown account")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		s.logger.Warn().Int64("accountID", account.ID).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(auth.Identity{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      string(account.Role),
		TeacherID: account.TeacherID,
		StudentID: account.StudentID,
	})
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	s.logger.Info().Int64("accountID", account.ID).Str("role", string(account.Role)).Msg("User logged in")
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		Account: account,
	}, nil
}

// Me returns the caller's account and the person record it is linked to
func (s *AuthService) Me(ctx context.Context, p appauth.Principal) (*dto.MeResponse, error) {
	account, err := s.accounts.GetAccountByID(ctx, p.AccountID)
	if err != nil {
		return nil, err
	}

	resp := &dto.MeResponse{Account: account}
	if account.TeacherID != nil {
		if resp.Teacher, err = s.teachers.GetTeacherByID(ctx, *account.TeacherID); err != nil {
			return nil, err
		}
	}
	if account.StudentID != nil {
		if resp.Student, err = s.students.GetStudentByID(ctx, *account.StudentID); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// newLinkedAccount prepares an account to be created together with a person
// record. Blank credentials mean no account is wanted.
func newLinkedAccount(ctx context.Context, accounts AccountStore, email, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	if len(password) < validation.PasswordMinLength {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters long", validation.PasswordMinLength))
	}

	exists, err := accounts.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	return &models.Account{Email: email, PasswordHash: hash}, nil
}
