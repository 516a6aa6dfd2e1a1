package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/pkg/auth"
	"github.com/yigit/enrollment/internal/pkg/helpers"
)

// sample data shares this password
const samplePassword = "Password1!"

// sentinel account; sample data is skipped once it exists
const sampleMarkerEmail = "ivan.petrovski@rsweb.com"

// CreateDefaultData creates the admin account and, when asked, a small set of
// teachers, students, courses and enrollments. Existing data is left alone.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, adminEmail, adminPassword string, withSamples bool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data...")

	if err := ensureAdmin(ctx, repos, adminEmail, adminPassword, lgr); err != nil {
		return err
	}
	if !withSamples {
		return nil
	}

	exists, err := repos.AccountRepository.EmailExists(ctx, sampleMarkerEmail)
	if err != nil {
		return err
	}
	if exists {
		lgr.Debug().Msg("Sample data already present")
		return nil
	}
	return createSampleData(ctx, repos, lgr)
}

func ensureAdmin(ctx context.Context, repos *repositories.Repositories, email, password string, lgr zerolog.Logger) error {
	exists, err := repos.AccountRepository.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}
	if err := repos.AccountRepository.CreateAccount(ctx, &models.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("error creating admin account: %w", err)
	}
	lgr.Info().Str("email", email).Msg("Admin account created")
	return nil
}

func account(email, hash string) *models.Account {
	return &models.Account{Email: email, PasswordHash: hash}
}

func date(s string) *time.Time {
	t, _ := time.Parse(helpers.DateLayout, s)
	return &t
}

func text(s string) *string { return &s }

func createSampleData(ctx context.Context, repos *repositories.Repositories, lgr zerolog.Logger) error {
	hash, err := auth.HashPassword(samplePassword)
	if err != nil {
		return fmt.Errorf("error hashing sample password: %w", err)
	}
	var finalErr error

	teachers := []struct {
		t     *models.Teacher
		email string
	}{
		{&models.Teacher{FirstName: "Ivan", LastName: "Petrovski", Degree: text("PhD"), AcademicRank: text("Professor"), OfficeNumber: text("A101"), HireDate: date("2012-09-01")}, sampleMarkerEmail},
		{&models.Teacher{FirstName: "Marija", LastName: "Stojanova", Degree: text("MSc"), AcademicRank: text("Assistant"), OfficeNumber: text("B204"), HireDate: date("2019-02-15")}, "marija.stojanova@rsweb.com"},
	}
	for _, item := range teachers {
		if err := repos.TeacherRepository.CreateTeacher(ctx, item.t, account(item.email, hash)); err != nil {
			lgr.Error().Err(err).Str("teacher", item.t.FullName()).Msg("Error creating sample teacher")
			finalErr = errors.Join(finalErr, err)
		}
	}
	if finalErr != nil {
		return finalErr
	}

	courses := []*models.Course{
		{Title: "Databases", Credits: 6, Semester: 3, Programme: text("Software Engineering"), EducationLevel: text("Bachelor"), FirstTeacherID: &teachers[0].t.ID, SecondTeacherID: &teachers[1].t.ID},
		{Title: "Web Programming", Credits: 6, Semester: 5, Programme: text("Software Engineering"), EducationLevel: text("Bachelor"), FirstTeacherID: &teachers[1].t.ID},
		{Title: "Operating Systems", Credits: 6, Semester: 4, Programme: text("Computer Engineering"), EducationLevel: text("Bachelor"), FirstTeacherID: &teachers[0].t.ID},
	}
	for _, c := range courses {
		if err := repos.CourseRepository.CreateCourse(ctx, c); err != nil {
			lgr.Error().Err(err).Str("course", c.Title).Msg("Error creating sample course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	students := []struct {
		s     *models.Student
		email string
	}{
		{&models.Student{Index: "2022/001", FirstName: "Petar", LastName: "Nikolov", EnrollmentDate: date("2022-10-01"), AcquiredCredits: helpers.IntPtr(60), CurrentSemester: helpers.IntPtr(3), EducationLevel: text("Bachelor")}, "petar.nikolov@rsweb.com"},
		{&models.Student{Index: "2022/002", FirstName: "Ana", LastName: "Trajkovska", EnrollmentDate: date("2022-10-01"), AcquiredCredits: helpers.IntPtr(54), CurrentSemester: helpers.IntPtr(3), EducationLevel: text("Bachelor")}, "ana.trajkovska@rsweb.com"},
		{&models.Student{Index: "2021/017", FirstName: "Elena", LastName: "Dimova", EnrollmentDate: date("2021-10-01"), AcquiredCredits: helpers.IntPtr(120), CurrentSemester: helpers.IntPtr(5), EducationLevel: text("Bachelor")}, "elena.dimova@rsweb.com"},
		{&models.Student{Index: "2023/042", FirstName: "Stefan", LastName: "Ristov", EnrollmentDate: date("2023-10-01"), CurrentSemester: helpers.IntPtr(1), EducationLevel: text("Bachelor")}, ""},
	}
	for _, item := range students {
		var acct *models.Account
		if item.email != "" {
			acct = account(item.email, hash)
		}
		if err := repos.StudentRepository.CreateStudent(ctx, item.s, acct); err != nil {
			lgr.Error().Err(err).Str("index", item.s.Index).Msg("Error creating sample student")
			finalErr = errors.Join(finalErr, err)
		}
	}
	if finalErr != nil {
		return finalErr
	}

	if _, err := repos.EnrollmentRepository.InsertEnrollments(ctx, courses[0].ID, 2022, models.SemesterWinter,
		[]int64{students[0].s.ID, students[1].s.ID}); err != nil {
		lgr.Error().Err(err).Msg("Error creating sample enrollments")
		finalErr = errors.Join(finalErr, err)
	}
	if _, err := repos.EnrollmentRepository.InsertEnrollments(ctx, courses[1].ID, 2021, models.SemesterWinter,
		[]int64{students[2].s.ID}); err != nil {
		lgr.Error().Err(err).Msg("Error creating sample enrollments")
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Int("teachers", len(teachers)).Int("courses", len(courses)).Int("students", len(students)).
			Msg("Sample data created")
	}
	return finalErr
}
