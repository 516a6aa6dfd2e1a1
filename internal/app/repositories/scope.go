package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/yigit/enrollment/internal/app/models"
)

// denyAll is used for scopes that match nothing
var denyAll = squirrel.Expr("FALSE")

// courseScopeCond restricts a query over "courses c" to the courses the
// scope may see.
func courseScopeCond(scope models.Scope) squirrel.Sqlizer {
	switch {
	case scope.All:
		return nil
	case scope.TeacherID != nil:
		return squirrel.Or{
			squirrel.Eq{"c.first_teacher_id": *scope.TeacherID},
			squirrel.Eq{"c.second_teacher_id": *scope.TeacherID},
		}
	case scope.StudentID != nil:
		return squirrel.Expr(
			"EXISTS (SELECT 1 FROM enrollments se WHERE se.course_id = c.id AND se.student_id = ?)",
			*scope.StudentID,
		)
	}
	return denyAll
}

// enrollmentScopeCond restricts a query over "enrollments e" joined with
// "courses c" to the rows the scope may see.
func enrollmentScopeCond(scope models.Scope) squirrel.Sqlizer {
	switch {
	case scope.All:
		return nil
	case scope.TeacherID != nil:
		return squirrel.Or{
			squirrel.Eq{"c.first_teacher_id": *scope.TeacherID},
			squirrel.Eq{"c.second_teacher_id": *scope.TeacherID},
		}
	case scope.StudentID != nil:
		return squirrel.Eq{"e.student_id": *scope.StudentID}
	}
	return denyAll
}

func applyScope(b squirrel.SelectBuilder, cond squirrel.Sqlizer) squirrel.SelectBuilder {
	if cond == nil {
		return b
	}
	return b.Where(cond)
}
