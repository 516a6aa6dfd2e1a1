package auth

import (
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

// Principal is the authenticated caller a request acts for.
type Principal struct {
	AccountID int64
	Email     string
	Role      models.Role
	TeacherID *int64
	StudentID *int64
}

// Common authorization failures
var (
	ErrAdminOnly      = apperrors.NewForbiddenError("only administrators can perform this action")
	ErrTeacherOnly    = apperrors.NewForbiddenError("only teachers can perform this action")
	ErrStudentOnly    = apperrors.NewForbiddenError("only students can perform this action")
	ErrUnlinked       = apperrors.NewForbiddenError("account is not linked to a teacher or student record")
	ErrUnknownRole    = apperrors.NewForbiddenError("unknown role")
	ErrNotCourseStaff = apperrors.NewForbiddenError("you do not teach this course")
	ErrNotOwner       = apperrors.NewForbiddenError("enrollment belongs to another student")
)

func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// RequireAdmin fails unless p is an administrator
func (p Principal) RequireAdmin() error {
	if !p.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

// RequireTeacher returns the linked teacher id of a teacher principal
func (p Principal) RequireTeacher() (int64, error) {
	if p.Role != models.RoleTeacher {
		return 0, ErrTeacherOnly
	}
	if p.TeacherID == nil {
		return 0, ErrUnlinked
	}
	return *p.TeacherID, nil
}

// RequireStudent returns the linked student id of a student principal
func (p Principal) RequireStudent() (int64, error) {
	if p.Role != models.RoleStudent {
		return 0, ErrStudentOnly
	}
	if p.StudentID == nil {
		return 0, ErrUnlinked
	}
	return *p.StudentID, nil
}

// Scope returns the visibility scope for course and enrollment queries.
// Unknown roles and unlinked accounts see nothing.
func (p Principal) Scope() (models.Scope, error) {
	switch p.Role {
	case models.RoleAdmin:
		return models.Unrestricted, nil
	case models.RoleTeacher:
		id, err := p.RequireTeacher()
		if err != nil {
			return models.Scope{}, err
		}
		return models.ForTeacher(id), nil
	case models.RoleStudent:
		id, err := p.RequireStudent()
		if err != nil {
			return models.Scope{}, err
		}
		return models.ForStudent(id), nil
	}
	return models.Scope{}, ErrUnknownRole
}
