package models

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts only the two known roles, case-sensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleStudent, RoleInstructor:
		return r, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) Valid() bool { return r == RoleStudent || r == RoleInstructor }

// Table is the partition holding accounts of this role.
func (r Role) Table() string {
	if r == RoleInstructor {
		return "instructors"
	}
	return "students"
}

func (r Role) String() string { return string(r) }

// Account is the shape shared by both partitions. Username and Email are
// unique within a partition.
type Account struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:191;not null"`
	FirstName    string    `gorm:"size:191;not null"`
	LastName     string    `gorm:"size:191;not null"`
	Email        string    `gorm:"uniqueIndex;size:191;not null"`
	DateOfBirth  time.Time `gorm:"type:date;not null"`
	Role         Role      `gorm:"size:32;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Student struct {
	Account
}

func (Student) TableName() string { return RoleStudent.Table() }

type Instructor struct {
	Account
}

func (Instructor) TableName() string { return RoleInstructor.Table() }
