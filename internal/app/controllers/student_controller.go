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

// StudentController handles student records
type StudentController struct {
	studentService services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{studentService: studentService, logger: logger}
}

// bindStudent reads a JSON or multipart student form with its optional image
func bindStudent(ctx *gin.Context) (*models.Student, services.Credentials, *multipart.FileHeader, bool) {
	var req dto.StudentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return nil, services.Credentials{}, nil, false
	}
	enrolled, ok := parseDate(ctx, "enrollmentDate", req.EnrollmentDate)
	if !ok {
		return nil, services.Credentials{}, nil, false
	}
	image, ok := optionalFile(ctx, "image")
	if !ok {
		return nil, services.Credentials{}, nil, false
	}

	st := &models.Student{
		Index:           req.Index,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		EnrollmentDate:  enrolled,
		AcquiredCredits: req.AcquiredCredits,
		CurrentSemester: req.CurrentSemester,
		EducationLevel:  helpers.TrimToNil(&req.EducationLevel),
		Version:         req.Version,
	}
	return st, services.Credentials{Email: req.Email, Password: req.Password}, image, true
}

// ListStudents lists students page by page
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param index query string false "Index contains"
// @Param firstName query string false "First name contains"
// @Param lastName query string false "Last name contains"
// @Param courseId query int false "Enrolled in course"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse{items=[]models.Student}}
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var q dto.StudentListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.studentService.ListStudents(ctx, p, models.StudentFilter{
		Index:     q.Index,
		FirstName: q.FirstName,
		LastName:  q.LastName,
		CourseID:  q.CourseID,
		Page:      page,
		Size:      size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// GetStudent returns one student
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "student")
	if !ok {
		return
	}

	st, err := c.studentService.GetStudent(ctx, p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(st))
}

// CreateStudent creates a student with an optional login account
// @Summary Create student
// @Description Accepts JSON or multipart/form-data; the multipart form may carry a profile image in "image"
// @Tags students
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.StudentRequest true "Student"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Index or email already exists"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	st, creds, image, ok := bindStudent(ctx)
	if !ok {
		return
	}

	if err := c.studentService.CreateStudent(ctx, p, st, creds, image); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(st))
}

// UpdateStudent replaces a student's fields
// @Summary Update student
// @Description The version must match the stored one; a new image replaces the old one
// @Tags students
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.StudentRequest true "Student"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Stale version or duplicate index"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "student")
	if !ok {
		return
	}
	st, _, image, ok := bindStudent(ctx)
	if !ok {
		return
	}
	st.ID = id

	if err := c.studentService.UpdateStudent(ctx, p, st, image); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(st))
}

// DeleteStudent deletes a student with their account and enrollments
// @Summary Delete student
// @Tags students
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "student")
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("studentID", id).Msg("Student deleted")
	ctx.Status(http.StatusNoContent)
}
