package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
	"github.com/yigit/enrollment/internal/pkg/helpers"
)

// TeacherController handles teacher records
type TeacherController struct {
	teacherService services.TeacherService
	logger         zerolog.Logger
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teacherService services.TeacherService, logger zerolog.Logger) *TeacherController {
	return &TeacherController{teacherService: teacherService, logger: logger}
}

// bindTeacher reads a JSON or multipart teacher form with its optional image
func bindTeacher(ctx *gin.Context) (*models.Teacher, services.Credentials, *multipart.FileHeader, bool) {
	var req dto.TeacherRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return nil, services.Credentials{}, nil, false
	}
	hired, ok := parseDate(ctx, "hireDate", req.HireDate)
	if !ok {
		return nil, services.Credentials{}, nil, false
	}
	image, ok := optionalFile(ctx, "image")
	if !ok {
		return nil, services.Credentials{}, nil, false
	}

	t := &models.Teacher{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Degree:       helpers.TrimToNil(&req.Degree),
		AcademicRank: helpers.TrimToNil(&req.AcademicRank),
		OfficeNumber: helpers.TrimToNil(&req.OfficeNumber),
		HireDate:     hired,
		Version:      req.Version,
	}
	return t, services.Credentials{Email: req.Email, Password: req.Password}, image, true
}

// ListTeachers lists teachers page by page
// @Summary List teachers
// @Tags teachers
// @Produce json
// @Security BearerAuth
// @Param firstName query string false "First name contains"
// @Param lastName query string false "Last name contains"
// @Param degree query string false "Degree contains"
// @Param academicRank query string false "Academic rank contains"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse{items=[]models.Teacher}}
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /teachers [get]
func (c *TeacherController) ListTeachers(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var q dto.TeacherListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.teacherService.ListTeachers(ctx, p, models.TeacherFilter{
		FirstName:    q.FirstName,
		LastName:     q.LastName,
		Degree:       q.Degree,
		AcademicRank: q.AcademicRank,
		Page:         page,
		Size:         size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// GetTeacher returns one teacher
// @Summary Get teacher
// @Tags teachers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=models.Teacher}
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /teachers/{id} [get]
func (c *TeacherController) GetTeacher(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "teacher")
	if !ok {
		return
	}

	t, err := c.teacherService.GetTeacher(ctx, p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(t))
}

// CreateTeacher creates a teacher with an optional login account
// @Summary Create teacher
// @Description Accepts JSON or multipart/form-data; the multipart form may carry a profile image in "image"
// @Tags teachers
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.TeacherRequest true "Teacher"
// @Success 201 {object} dto.APIResponse{data=models.Teacher}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /teachers [post]
func (c *TeacherController) CreateTeacher(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	t, creds, image, ok := bindTeacher(ctx)
	if !ok {
		return
	}

	if err := c.teacherService.CreateTeacher(ctx, p, t, creds, image); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(t))
}

// UpdateTeacher replaces a teacher's fields
// @Summary Update teacher
// @Description The version must match the stored one; a new image replaces the old one
// @Tags teachers
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Param request body dto.TeacherRequest true "Teacher"
// @Success 200 {object} dto.APIResponse{data=models.Teacher}
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Failure 409 {object} dto.ErrorResponse "Stale version"
// @Router /teachers/{id} [put]
func (c *TeacherController) UpdateTeacher(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "teacher")
	if !ok {
		return
	}
	t, _, image, ok := bindTeacher(ctx)
	if !ok {
		return
	}
	t.ID = id

	if err := c.teacherService.UpdateTeacher(ctx, p, t, image); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(t))
}

// DeleteTeacher deletes a teacher and their account, unassigning their courses
// @Summary Delete teacher
// @Tags teachers
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /teachers/{id} [delete]
func (c *TeacherController) DeleteTeacher(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "teacher")
	if !ok {
		return
	}

	if err := c.teacherService.DeleteTeacher(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("teacherID", id).Msg("Teacher deleted")
	ctx.Status(http.StatusNoContent)
}
