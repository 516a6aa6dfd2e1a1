package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
	"github.com/yigit/enrollment/internal/pkg/helpers"
)

// EnrollmentController handles enrollment records outside the course views
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
	gradingService    services.GradingService
	logger            zerolog.Logger
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService, gradingService services.GradingService, logger zerolog.Logger) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		gradingService:    gradingService,
		logger:            logger,
	}
}

func enrollmentFilter(q *dto.EnrollmentListQuery) models.EnrollmentFilter {
	f := models.EnrollmentFilter{
		CourseID:   q.CourseID,
		StudentID:  q.StudentID,
		Year:       q.Year,
		ActiveOnly: q.ActiveOnly,
	}
	if strings.TrimSpace(q.Semester) != "" {
		sem := models.NormalizeSemester(q.Semester)
		f.Semester = &sem
	}
	return f
}

func (c *EnrollmentController) enrollmentFromRequest(ctx *gin.Context, req *dto.EnrollmentRequest) (*models.Enrollment, bool) {
	finish, ok := parseDate(ctx, "finishDate", req.FinishDate)
	if !ok {
		return nil, false
	}
	return &models.Enrollment{
		CourseID:         req.CourseID,
		StudentID:        req.StudentID,
		Semester:         models.NormalizeSemester(req.Semester),
		Year:             req.Year,
		Grade:            req.Grade,
		SeminarURL:       helpers.TrimToNil(&req.SeminarURL),
		ProjectURL:       helpers.TrimToNil(&req.ProjectURL),
		ExamPoints:       req.ExamPoints,
		SeminarPoints:    req.SeminarPoints,
		ProjectPoints:    req.ProjectPoints,
		AdditionalPoints: req.AdditionalPoints,
		FinishDate:       finish,
	}, true
}

// ListEnrollments lists the enrollments visible to the caller
// @Summary List enrollments
// @Description Admins see every row, teachers the rows of their courses, students their own rows
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Course ID"
// @Param studentId query int false "Student ID"
// @Param year query int false "Academic year"
// @Param semester query string false "Winter or Summer"
// @Param activeOnly query bool false "Only rows without a finish date"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment}
// @Router /enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var q dto.EnrollmentListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	enrollments, err := c.enrollmentService.ListEnrollments(ctx, p, enrollmentFilter(&q))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollments))
}

// GetEnrollment returns one enrollment
// @Summary Get enrollment
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [get]
func (c *EnrollmentController) GetEnrollment(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "enrollment")
	if !ok {
		return
	}

	e, err := c.enrollmentService.GetEnrollment(ctx, p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(e))
}

// CreateEnrollment creates a single enrollment row
// @Summary Create enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollmentRequest true "Enrollment"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 409 {object} dto.ErrorResponse "Student already enrolled in the course"
// @Router /enrollments [post]
func (c *EnrollmentController) CreateEnrollment(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req dto.EnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	e, ok := c.enrollmentFromRequest(ctx, &req)
	if !ok {
		return
	}

	if err := c.enrollmentService.CreateEnrollment(ctx, p, e); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(e))
}

// UpdateEnrollment replaces an enrollment row
// @Summary Update enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body dto.EnrollmentRequest true "Enrollment"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Student already enrolled in the course"
// @Router /enrollments/{id} [put]
func (c *EnrollmentController) UpdateEnrollment(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "enrollment")
	if !ok {
		return
	}
	var req dto.EnrollmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	e, ok := c.enrollmentFromRequest(ctx, &req)
	if !ok {
		return
	}
	e.ID = id

	if err := c.enrollmentService.UpdateEnrollment(ctx, p, e); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(e))
}

// DeleteEnrollment deletes an enrollment row
// @Summary Delete enrollment
// @Tags enrollments
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) DeleteEnrollment(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "enrollment")
	if !ok {
		return
	}

	if err := c.enrollmentService.DeleteEnrollment(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// UpdateSubmission stores the caller's project link and seminar file
// @Summary Submit work
// @Description A student attaches a project URL and a pdf, doc or docx seminar paper to their own enrollment, active or finished
// @Tags grading
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param projectUrl formData string false "Project URL"
// @Param seminarFile formData file false "Seminar paper"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 400 {object} dto.ErrorResponse "Unsupported seminar file type"
// @Failure 403 {object} dto.ErrorResponse "Not the caller's enrollment"
// @Router /enrollments/{id}/submission [put]
func (c *EnrollmentController) UpdateSubmission(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "enrollment")
	if !ok {
		return
	}
	var req dto.SubmissionRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	seminar, ok := optionalFile(ctx, "seminarFile")
	if !ok {
		return
	}

	e, err := c.gradingService.UpdateSubmission(ctx, p, id, req.ProjectURL, seminar)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("enrollmentID", id).Bool("seminar", seminar != nil).Msg("Submission updated")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(e))
}
