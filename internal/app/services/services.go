package services

import (
	"context"
	"time"

	"github.com/yigit/enrollment/internal/app/models"
)

// Services defined in this package:
// - AuthService: login and the caller's own profile
// - ProfileService: self-service profile images
// - EnrollmentService: enrollment lifecycle and enrollment administration
// - GradingService: teacher gradebook and student submissions
// - CourseService, StudentService, TeacherService: scoped reads and admin CRUD
//
// Each service depends on the narrow store interfaces below. The pgx
// repositories satisfy them in production and in-memory fakes in tests.

// StudentStore is the persistence a student-facing service needs
type StudentStore interface {
	ListStudents(ctx context.Context, f models.StudentFilter) ([]*models.Student, int64, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	ListStudentsByEnrollmentYear(ctx context.Context, year int) ([]*models.Student, error)
	ListStudentsByIDs(ctx context.Context, ids []int64) ([]*models.Student, error)
	StudentIndexExists(ctx context.Context, index string, excludeID int64) (bool, error)
	CreateStudent(ctx context.Context, s *models.Student, acct *models.Account) error
	UpdateStudent(ctx context.Context, s *models.Student) error
	UpdateStudentImage(ctx context.Context, id int64, path *string) error
	DeleteStudent(ctx context.Context, id int64) error
}

// TeacherStore is the persistence the teacher service needs
type TeacherStore interface {
	ListTeachers(ctx context.Context, f models.TeacherFilter) ([]*models.Teacher, int64, error)
	GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error)
	CreateTeacher(ctx context.Context, t *models.Teacher, acct *models.Account) error
	UpdateTeacher(ctx context.Context, t *models.Teacher) error
	UpdateTeacherImage(ctx context.Context, id int64, path *string) error
	DeleteTeacher(ctx context.Context, id int64) error
}

// CourseStore is the persistence the course service needs
type CourseStore interface {
	ListCourses(ctx context.Context, scope models.Scope, f models.CourseFilter) ([]*models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	StudentHasEnrollment(ctx context.Context, courseID, studentID int64) (bool, error)
	CreateCourse(ctx context.Context, c *models.Course) error
	UpdateCourse(ctx context.Context, c *models.Course) error
	DeleteCourse(ctx context.Context, id int64) error
}

// EnrollmentStore is the persistence the enrollment and grading services need
type EnrollmentStore interface {
	ListEnrollments(ctx context.Context, scope models.Scope, f models.EnrollmentFilter) ([]*models.Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id int64) (*models.Enrollment, error)
	ListCourseEnrollments(ctx context.Context, courseID int64) ([]*models.Enrollment, error)
	ListEnrollmentsForGrading(ctx context.Context, courseID int64, year int, ids []int64) ([]*models.Enrollment, error)
	InsertEnrollments(ctx context.Context, courseID int64, year int, semester models.Semester, studentIDs []int64) ([]int64, error)
	FinishEnrollments(ctx context.Context, courseID int64, year int, semester models.Semester, ids []int64, finish *time.Time) (int64, error)
	SaveGrades(ctx context.Context, edits []models.GradeEdit) error
	UpdateSubmission(ctx context.Context, id int64, projectURL, seminarURL *string) error
	EnrollmentExists(ctx context.Context, courseID, studentID, excludeID int64) (bool, error)
	EnrollmentYears(ctx context.Context, courseID int64, studentID *int64) ([]int, error)
	CreateEnrollment(ctx context.Context, e *models.Enrollment) error
	UpdateEnrollment(ctx context.Context, e *models.Enrollment) error
	DeleteEnrollment(ctx context.Context, id int64) error
}

// AccountStore is the persistence the auth service needs
type AccountStore interface {
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateAccount(ctx context.Context, a *models.Account) error
}
