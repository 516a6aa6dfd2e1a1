package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/helpers"
)

// CourseController handles course CRUD and the per-course enrollment actions
type CourseController struct {
	courseService     services.CourseService
	enrollmentService services.EnrollmentService
	gradingService    services.GradingService
	logger            zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(
	courseService services.CourseService,
	enrollmentService services.EnrollmentService,
	gradingService services.GradingService,
	logger zerolog.Logger,
) *CourseController {
	return &CourseController{
		courseService:     courseService,
		enrollmentService: enrollmentService,
		gradingService:    gradingService,
		logger:            logger,
	}
}

func courseFromRequest(req *dto.CourseRequest) *models.Course {
	return &models.Course{
		Title:           req.Title,
		Credits:         req.Credits,
		Semester:        req.Semester,
		Programme:       helpers.TrimToNil(&req.Programme),
		EducationLevel:  helpers.TrimToNil(&req.EducationLevel),
		FirstTeacherID:  req.FirstTeacherID,
		SecondTeacherID: req.SecondTeacherID,
	}
}

// ListCourses lists the courses visible to the caller
// @Summary List courses
// @Description Admins see every course, teachers the courses they teach, students the courses they are enrolled in
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param title query string false "Title contains"
// @Param semester query int false "Semester number"
// @Param programme query string false "Programme contains"
// @Param teacherId query int false "Taught by teacher"
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var q dto.CourseListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	courses, err := c.courseService.ListCourses(ctx, p, models.CourseFilter{
		Title:     q.Title,
		Semester:  q.Semester,
		Programme: q.Programme,
		TeacherID: q.TeacherID,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// GetCourse returns one course with the enrollments the caller may see
// @Summary Course details
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseDetailsResponse}
// @Failure 403 {object} dto.ErrorResponse "Course outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "course")
	if !ok {
		return
	}

	details, err := c.courseService.GetCourse(ctx, p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(details))
}

// CreateCourse creates a course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.ErrorResponse "Validation failed or unknown teacher"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	var req dto.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	course := courseFromRequest(&req)
	if err := c.courseService.CreateCourse(ctx, p, course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course))
}

// UpdateCourse replaces a course's fields
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CourseRequest true "Course"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "course")
	if !ok {
		return
	}
	var req dto.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	course := courseFromRequest(&req)
	course.ID = id
	if err := c.courseService.UpdateCourse(ctx, p, course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// DeleteCourse deletes a course and its enrollments
// @Summary Delete course
// @Tags courses
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "course")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("courseID", id).Msg("Course deleted")
	ctx.Status(http.StatusNoContent)
}

// EligibleStudents lists students who may be enrolled in a period
// @Summary Eligible students
// @Description Students whose enrollment year is the given year and whose current semester parity matches the period
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param year query int true "Academic year"
// @Param semester query string false "Winter or Summer"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /courses/{id}/eligible-students [get]
func (c *CourseController) EligibleStudents(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "course")
	if !ok {
		return
	}
	year, ok := optionalYear(ctx)
	if !ok {
		return
	}
	if year == nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("year is required"))
		return
	}

	students, err := c.enrollmentService.EligibleStudents(ctx, p, id, *year, ctx.Query("semester"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// CourseEnrollments lists a course's enrollments
// @Summary Course enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param year query int false "Academic year"
// @Param semester query string false "Winter or Summer"
// @Param activeOnly query bool false "Only rows without a finish date"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment}
// @Router /courses/{id}/enrollments [get]
func (c *CourseController) CourseEnrollments(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "course")
	if !ok {
		return
	}
	var q dto.EnrollmentListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	enrollments, err := c.enrollmentService.CourseEnrollments(ctx, p, id, enrollmentFilter(&q))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollments))
}

// EnrollStudents enrolls the selected students in a period
// @Summary Enroll students
// @Description Ineligible students, students who passed the course and students already holding a row are skipped and reported
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.EnrollStudentsRequest true "Period and selection"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollStudentsResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/enrollments [post]
func (c *CourseController) EnrollStudents(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "course")
	if !ok {
		return
	}
	var req dto.EnrollStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.enrollmentService.EnrollStudents(ctx, p, id, req.Year, req.Semester, req.StudentIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeactivateStudents finishes the selected enrollments of a period
// @Summary Deactivate enrollments
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.DeactivateStudentsRequest true "Period and selection"
// @Success 200 {object} dto.APIResponse{data=dto.DeactivateStudentsResponse}
// @Router /courses/{id}/enrollments/deactivate [post]
func (c *CourseController) DeactivateStudents(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "course")
	if !ok {
		return
	}
	var req dto.DeactivateStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}
	finish, ok := parseDate(ctx, "finishDate", req.FinishDate)
	if !ok {
		return
	}

	updated, err := c.enrollmentService.DeactivateStudents(ctx, p, id, req.Year, req.Semester, req.EnrollmentIDs, finish)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.DeactivateStudentsResponse{Updated: updated}))
}

// Gradebook returns the grading sheet of a course for one year
// @Summary Gradebook
// @Tags grading
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param year query int false "Academic year, newest when omitted"
// @Success 200 {object} dto.APIResponse{data=dto.GradebookResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a teacher of this course"
// @Router /courses/{id}/gradebook [get]
func (c *CourseController) Gradebook(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "course")
	if !ok {
		return
	}
	year, ok := optionalYear(ctx)
	if !ok {
		return
	}

	book, err := c.gradingService.Gradebook(ctx, p, id, year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(book))
}

// UpdateGrades applies a batch of grade edits
// @Summary Update gradebook
// @Description Finished rows and rows outside the course or year are skipped
// @Tags grading
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.GradebookUpdateRequest true "Edits"
// @Success 200 {object} dto.APIResponse{data=dto.GradebookUpdateResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a teacher of this course"
// @Router /courses/{id}/gradebook [put]
func (c *CourseController) UpdateGrades(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "course")
	if !ok {
		return
	}
	var req dto.GradebookUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	edits := make([]models.GradeEdit, 0, len(req.Edits))
	for _, e := range req.Edits {
		finish, ok := parseDate(ctx, "finishDate", e.FinishDate)
		if !ok {
			return
		}
		edits = append(edits, models.GradeEdit{
			EnrollmentID:     e.EnrollmentID,
			ExamPoints:       e.ExamPoints,
			SeminarPoints:    e.SeminarPoints,
			ProjectPoints:    e.ProjectPoints,
			AdditionalPoints: e.AdditionalPoints,
			Grade:            e.Grade,
			FinishDate:       finish,
		})
	}

	resp, err := c.gradingService.UpdateGrades(ctx, p, id, req.Year, edits)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// MyEnrollment returns the caller's standing in a course
// @Summary Own standing in a course
// @Tags grading
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param year query int false "Academic year"
// @Success 200 {object} dto.APIResponse{data=dto.StandingResponse}
// @Failure 404 {object} dto.ErrorResponse "Not enrolled"
// @Router /courses/{id}/my-enrollment [get]
func (c *CourseController) MyEnrollment(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "course")
	if !ok {
		return
	}
	year, ok := optionalYear(ctx)
	if !ok {
		return
	}

	standing, err := c.gradingService.StudentStanding(ctx, p, id, year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(standing))
}
