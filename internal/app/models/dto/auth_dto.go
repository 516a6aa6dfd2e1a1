package dto

import "github.com/yigit/enrollment/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@rsweb.com"`
	Password string `json:"password" binding:"required" example:"Admin123!"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"28800"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token   TokenResponse   `json:"token"`
	Account *models.Account `json:"account"`
}

// MeResponse describes the caller and the record their account is linked to
type MeResponse struct {
	Account *models.Account `json:"account"`
	Teacher *models.Teacher `json:"teacher,omitempty"`
	Student *models.Student `json:"student,omitempty"`
}

// AccountRequest carries optional login credentials created with a person record
type AccountRequest struct {
	Email    string `json:"email" form:"email" binding:"omitempty,email,max=255"`
	Password string `json:"password" form:"password" binding:"required_with=Email"`
}
