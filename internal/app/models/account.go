package models

import "time"

// Account is a login identity. Teacher and student accounts link to the
// person record they act for.
type Account struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" example:"admin@rsweb.com"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role" example:"ADMIN"`
	TeacherID    *int64    `json:"teacherId,omitempty" db:"teacher_id"`
	StudentID    *int64    `json:"studentId,omitempty" db:"student_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
