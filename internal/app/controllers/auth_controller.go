package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
)

// AuthController handles login and the caller's own profile
type AuthController struct {
	authService    *services.AuthService
	profileService *services.ProfileService
	logger         zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, profileService *services.ProfileService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:    authService,
		profileService: profileService,
		logger:         logger,
	}
}

// Login handles user login
// @Summary Log in
// @Description Verifies email and password and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.authService.Login(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Me returns the authenticated account
// @Summary Current account
// @Description Returns the caller's account with its linked teacher or student record
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MeResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	resp, err := c.authService.Me(ctx, p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateProfileImage replaces the caller's profile image
// @Summary Update own profile image
// @Description Teachers and students upload a jpg, jpeg, png or webp image
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Profile image"
// @Success 200 {object} dto.APIResponse{data=string} "Stored image path"
// @Failure 400 {object} dto.ErrorResponse "Missing or unsupported file"
// @Failure 403 {object} dto.ErrorResponse "Admins have no profile image"
// @Router /me/profile-image [post]
func (c *AuthController) UpdateProfileImage(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	image, ok := optionalFile(ctx, "image")
	if !ok {
		return
	}

	path, err := c.profileService.UpdateProfileImage(ctx, p, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("accountID", p.AccountID).Str("path", path).Msg("Profile image updated")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(path))
}
