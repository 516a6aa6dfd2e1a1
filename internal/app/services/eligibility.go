package services

import (
	"context"
	"fmt"

	"github.com/yigit/enrollment/internal/app/models"
)

// StudentsByEnrollmentYear lists the students whose studies began in a year
type StudentsByEnrollmentYear interface {
	ListStudentsByEnrollmentYear(ctx context.Context, year int) ([]*models.Student, error)
}

// EligibilityResolver decides which students may be enrolled in a period
type EligibilityResolver struct {
	students StudentsByEnrollmentYear
}

// NewEligibilityResolver creates a new EligibilityResolver
func NewEligibilityResolver(students StudentsByEnrollmentYear) *EligibilityResolver {
	return &EligibilityResolver{students: students}
}

// EligibleStudents returns the students eligible for year and semester in
// the store's order (last name, first name).
func (r *EligibilityResolver) EligibleStudents(ctx context.Context, year int, semester models.Semester) ([]*models.Student, error) {
	candidates, err := r.students.ListStudentsByEnrollmentYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("error loading students for %d: %w", year, err)
	}

	eligible := make([]*models.Student, 0, len(candidates))
	for _, s := range candidates {
		if s.EligibleFor(year, semester) {
			eligible = append(eligible, s)
		}
	}
	return eligible, nil
}

// EligibleIDs returns the eligible students as a set of ids
func (r *EligibilityResolver) EligibleIDs(ctx context.Context, year int, semester models.Semester) (map[int64]struct{}, error) {
	students, err := r.EligibleStudents(ctx, year, semester)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]struct{}, len(students))
	for _, s := range students {
		ids[s.ID] = struct{}{}
	}
	return ids, nil
}
