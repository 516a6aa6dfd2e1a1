package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/controllers"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/middleware"
)

// Controllers groups the handlers the router dispatches to
type Controllers struct {
	Auth       *controllers.AuthController
	Course     *controllers.CourseController
	Enrollment *controllers.EnrollmentController
	Student    *controllers.StudentController
	Teacher    *controllers.TeacherController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	v1.POST("/auth/login", c.Auth.Login)
	v1.GET("/health", Health)

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)
	teacherOnly := authMiddleware.RoleRequired(models.RoleTeacher)
	studentOnly := authMiddleware.RoleRequired(models.RoleStudent)

	authenticated.GET("/me", c.Auth.Me)
	authenticated.POST("/me/profile-image",
		authMiddleware.RoleRequired(models.RoleTeacher, models.RoleStudent), c.Auth.UpdateProfileImage)

	courses := authenticated.Group("/courses")
	{
		// visibility is narrowed per role inside the services
		courses.GET("", c.Course.ListCourses)
		courses.GET("/:id", c.Course.GetCourse)

		courses.GET("/:id/gradebook", teacherOnly, c.Course.Gradebook)
		courses.PUT("/:id/gradebook", teacherOnly, c.Course.UpdateGrades)
		courses.GET("/:id/my-enrollment", studentOnly, c.Course.MyEnrollment)

		admin := courses.Group("")
		admin.Use(adminOnly)
		{
			admin.POST("", c.Course.CreateCourse)
			admin.PUT("/:id", c.Course.UpdateCourse)
			admin.DELETE("/:id", c.Course.DeleteCourse)
			admin.GET("/:id/eligible-students", c.Course.EligibleStudents)
			admin.GET("/:id/enrollments", c.Course.CourseEnrollments)
			admin.POST("/:id/enrollments", c.Course.EnrollStudents)
			admin.POST("/:id/enrollments/deactivate", c.Course.DeactivateStudents)
		}
	}

	enrollments := authenticated.Group("/enrollments")
	{
		enrollments.GET("", c.Enrollment.ListEnrollments)
		enrollments.PUT("/:id/submission", studentOnly, c.Enrollment.UpdateSubmission)

		admin := enrollments.Group("")
		admin.Use(adminOnly)
		{
			admin.GET("/:id", c.Enrollment.GetEnrollment)
			admin.POST("", c.Enrollment.CreateEnrollment)
			admin.PUT("/:id", c.Enrollment.UpdateEnrollment)
			admin.DELETE("/:id", c.Enrollment.DeleteEnrollment)
		}
	}

	students := authenticated.Group("/students")
	students.Use(adminOnly)
	{
		students.GET("", c.Student.ListStudents)
		students.GET("/:id", c.Student.GetStudent)
		students.POST("", c.Student.CreateStudent)
		students.PUT("/:id", c.Student.UpdateStudent)
		students.DELETE("/:id", c.Student.DeleteStudent)
	}

	teachers := authenticated.Group("/teachers")
	teachers.Use(adminOnly)
	{
		teachers.GET("", c.Teacher.ListTeachers)
		teachers.GET("/:id", c.Teacher.GetTeacher)
		teachers.POST("", c.Teacher.CreateTeacher)
		teachers.PUT("/:id", c.Teacher.UpdateTeacher)
		teachers.DELETE("/:id", c.Teacher.DeleteTeacher)
	}
}

// Health reports that the process is serving requests
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "ok"}))
}
