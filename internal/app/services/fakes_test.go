package services

import (
	"context"
	"mime/multipart"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

var nopLogger = zerolog.Nop()

func i64(v int64) *int64 { return &v }
func intp(v int) *int { return &v }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// memStore is an in-memory stand-in for the pgx repositories
type memStore struct {
	students    map[int64]*models.Student
	teachers    map[int64]*models.Teacher
	courses     map[int64]*models.Course
	enrollments map[int64]*models.Enrollment
	accounts    map[int64]*models.Account
	nextID      int64

	insertCalls int
	saveCalls   int
}

func newMemStore() *memStore {
	return &memStore{
		students:    map[int64]*models.Student{},
		teachers:    map[int64]*models.Teacher{},
		courses:     map[int64]*models.Course{},
		enrollments: map[int64]*models.Enrollment{},
		accounts:    map[int64]*models.Account{},
		nextID:      1000,
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addEnrollment(e *models.Enrollment) *models.Enrollment {
	m.enrollments[e.ID] = e
	return e
}

// --- students ---

func (m *memStore) ListStudents(_ context.Context, f models.StudentFilter) ([]*models.Student, int64, error) {
	out := make([]*models.Student, 0)
	for _, s := range m.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, int64(len(out)), nil
}

func (m *memStore) GetStudentByID(_ context.Context, id int64) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (m *memStore) ListStudentsByEnrollmentYear(_ context.Context, year int) ([]*models.Student, error) {
	out := make([]*models.Student, 0)
	for _, s := range m.students {
		if s.EnrollmentDate != nil && s.EnrollmentDate.Year() == year {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (m *memStore) ListStudentsByIDs(_ context.Context, ids []int64) ([]*models.Student, error) {
	out := make([]*models.Student, 0)
	for _, id := range ids {
		if s, ok := m.students[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) StudentIndexExists(_ context.Context, index string, excludeID int64) (bool, error) {
	for _, s := range m.students {
		if s.Index == index && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateStudent(_ context.Context, s *models.Student, acct *models.Account) error {
	s.ID = m.id()
	s.Version = 1
	m.students[s.ID] = s
	if acct != nil {
		acct.ID = m.id()
		acct.Role = models.RoleStudent
		acct.StudentID = &s.ID
		m.accounts[acct.ID] = acct
	}
	return nil
}

func (m *memStore) UpdateStudent(_ context.Context, s *models.Student) error {
	cur, ok := m.students[s.ID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if cur.Version != s.Version {
		return apperrors.ErrConcurrentUpdate
	}
	s.Version++
	cp := *s
	m.students[s.ID] = &cp
	return nil
}

func (m *memStore) UpdateStudentImage(_ context.Context, id int64, path *string) error {
	s, ok := m.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.ProfileImagePath = path
	s.Version++
	return nil
}

func (m *memStore) DeleteStudent(_ context.Context, id int64) error {
	if _, ok := m.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(m.students, id)
	return nil
}

// --- teachers ---

func (m *memStore) ListTeachers(_ context.Context, f models.TeacherFilter) ([]*models.Teacher, int64, error) {
	out := make([]*models.Teacher, 0)
	for _, t := range m.teachers {
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) GetTeacherByID(_ context.Context, id int64) (*models.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, apperrors.ErrTeacherNotFound
}

func (m *memStore) CreateTeacher(_ context.Context, t *models.Teacher, acct *models.Account) error {
	t.ID = m.id()
	t.Version = 1
	m.teachers[t.ID] = t
	if acct != nil {
		acct.ID = m.id()
		acct.Role = models.RoleTeacher
		acct.TeacherID = &t.ID
		m.accounts[acct.ID] = acct
	}
	return nil
}

func (m *memStore) UpdateTeacher(_ context.Context, t *models.Teacher) error {
	cur, ok := m.teachers[t.ID]
	if !ok {
		return apperrors.ErrTeacherNotFound
	}
	if cur.Version != t.Version {
		return apperrors.ErrConcurrentUpdate
	}
	t.Version++
	cp := *t
	m.teachers[t.ID] = &cp
	return nil
}

func (m *memStore) UpdateTeacherImage(_ context.Context, id int64, path *string) error {
	t, ok := m.teachers[id]
	if !ok {
		return apperrors.ErrTeacherNotFound
	}
	t.ProfileImagePath = path
	return nil
}

func (m *memStore) DeleteTeacher(_ context.Context, id int64) error {
	if _, ok := m.teachers[id]; !ok {
		return apperrors.ErrTeacherNotFound
	}
	for _, c := range m.courses {
		if c.FirstTeacherID != nil && *c.FirstTeacherID == id {
			c.FirstTeacherID = nil
		}
		if c.SecondTeacherID != nil && *c.SecondTeacherID == id {
			c.SecondTeacherID = nil
		}
	}
	delete(m.teachers, id)
	return nil
}

// --- courses ---

func (m *memStore) ListCourses(_ context.Context, scope models.Scope, f models.CourseFilter) ([]*models.Course, error) {
	out := make([]*models.Course, 0)
	for _, c := range m.courses {
		enrolled := false
		if scope.StudentID != nil {
			enrolled, _ = m.StudentHasEnrollment(context.Background(), c.ID, *scope.StudentID)
		}
		if scope.AllowsCourse(c, enrolled) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (m *memStore) StudentHasEnrollment(_ context.Context, courseID, studentID int64) (bool, error) {
	for _, e := range m.enrollments {
		if e.CourseID == courseID && e.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateCourse(_ context.Context, c *models.Course) error {
	c.ID = m.id()
	m.courses[c.ID] = c
	return nil
}

func (m *memStore) UpdateCourse(_ context.Context, c *models.Course) error {
	if _, ok := m.courses[c.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	m.courses[c.ID] = c
	return nil
}

func (m *memStore) DeleteCourse(_ context.Context, id int64) error {
	if _, ok := m.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(m.courses, id)
	return nil
}

// --- enrollments ---

func (m *memStore) ListEnrollments(_ context.Context, scope models.Scope, f models.EnrollmentFilter) ([]*models.Enrollment, error) {
	out := make([]*models.Enrollment, 0)
	for _, e := range m.enrollments {
		if !scope.AllowsEnrollment(e, m.courses[e.CourseID]) {
			continue
		}
		if f.CourseID != nil && e.CourseID != *f.CourseID {
			continue
		}
		if f.StudentID != nil && e.StudentID != *f.StudentID {
			continue
		}
		if f.Year != nil && (e.Year == nil || *e.Year != *f.Year) {
			continue
		}
		if f.Semester != nil && e.Semester != *f.Semester {
			continue
		}
		if f.ActiveOnly && !e.IsActive() {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetEnrollmentByID(_ context.Context, id int64) (*models.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		cp := *e
		cp.Course = m.courses[e.CourseID]
		return &cp, nil
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (m *memStore) ListCourseEnrollments(ctx context.Context, courseID int64) ([]*models.Enrollment, error) {
	return m.ListEnrollments(ctx, models.Unrestricted, models.EnrollmentFilter{CourseID: &courseID})
}

func (m *memStore) ListEnrollmentsForGrading(_ context.Context, courseID int64, year int, ids []int64) ([]*models.Enrollment, error) {
	out := make([]*models.Enrollment, 0)
	for _, id := range ids {
		e, ok := m.enrollments[id]
		if ok && e.CourseID == courseID && e.Year != nil && *e.Year == year {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) InsertEnrollments(_ context.Context, courseID int64, year int, semester models.Semester, studentIDs []int64) ([]int64, error) {
	m.insertCalls++
	inserted := make([]int64, 0)
	for _, sid := range studentIDs {
		if taken, _ := m.StudentHasEnrollment(context.Background(), courseID, sid); taken {
			continue
		}
		y := year
		m.addEnrollment(&models.Enrollment{ID: m.id(), CourseID: courseID, StudentID: sid, Year: &y, Semester: semester})
		inserted = append(inserted, sid)
	}
	return inserted, nil
}

func (m *memStore) FinishEnrollments(_ context.Context, courseID int64, year int, semester models.Semester, ids []int64, finish *time.Time) (int64, error) {
	var n int64
	for _, id := range ids {
		e, ok := m.enrollments[id]
		if ok && e.CourseID == courseID && e.InPeriod(year, semester) {
			e.FinishDate = finish
			n++
		}
	}
	return n, nil
}

func (m *memStore) SaveGrades(_ context.Context, edits []models.GradeEdit) error {
	m.saveCalls++
	for _, g := range edits {
		if e, ok := m.enrollments[g.EnrollmentID]; ok {
			g.Apply(e)
		}
	}
	return nil
}

func (m *memStore) UpdateSubmission(_ context.Context, id int64, projectURL, seminarURL *string) error {
	e, ok := m.enrollments[id]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	e.ProjectURL = projectURL
	e.SeminarURL = seminarURL
	return nil
}

func (m *memStore) EnrollmentExists(_ context.Context, courseID, studentID, excludeID int64) (bool, error) {
	for _, e := range m.enrollments {
		if e.CourseID == courseID && e.StudentID == studentID && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) EnrollmentYears(_ context.Context, courseID int64, studentID *int64) ([]int, error) {
	seen := map[int]bool{}
	years := make([]int, 0)
	for _, e := range m.enrollments {
		if e.CourseID != courseID || e.Year == nil {
			continue
		}
		if studentID != nil && e.StudentID != *studentID {
			continue
		}
		if !seen[*e.Year] {
			seen[*e.Year] = true
			years = append(years, *e.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (m *memStore) CreateEnrollment(_ context.Context, e *models.Enrollment) error {
	e.ID = m.id()
	m.addEnrollment(e)
	return nil
}

func (m *memStore) UpdateEnrollment(_ context.Context, e *models.Enrollment) error {
	if _, ok := m.enrollments[e.ID]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	m.enrollments[e.ID] = e
	return nil
}

func (m *memStore) DeleteEnrollment(_ context.Context, id int64) error {
	if _, ok := m.enrollments[id]; !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	delete(m.enrollments, id)
	return nil
}

// --- accounts ---

func (m *memStore) GetAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (m *memStore) GetAccountByID(_ context.Context, id int64) (*models.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, apperrors.ErrAccountNotFound
}

func (m *memStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetAccountByEmail(ctx, email)
	return err == nil, nil
}

func (m *memStore) CreateAccount(_ context.Context, a *models.Account) error {
	a.ID = m.id()
	m.accounts[a.ID] = a
	return nil
}

// memStorage records blob operations instead of touching the disk
type memStorage struct {
	saved   []string
	deleted []string
	saveErr error
}

func (s *memStorage) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	path := "/uploads/" + subPath + "/" + fh.Filename
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *memStorage) DeleteFile(path string) error {
	s.deleted = append(s.deleted, path)
	return nil
}
