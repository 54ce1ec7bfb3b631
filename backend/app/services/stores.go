package services

import (
	"context"
	"gradebook/backend/app/models"
	"gradebook/backend/app/repo"
)

// AccountStore is the credential store consumed by the services.
type AccountStore interface {
	FindByUsername(ctx context.Context, role models.Role, username string) (*models.Account, error)
	FindByID(ctx context.Context, role models.Role, id uint) (*models.Account, error)
	CountByUsername(ctx context.Context, role models.Role, username string) (int64, error)
	Insert(ctx context.Context, a *models.Account) error
	Update(ctx context.Context, role models.Role, id uint, f repo.AccountFields) (*models.Account, error)
	Delete(ctx context.Context, role models.Role, id uint) (*models.Account, error)
	ListAll(ctx context.Context, role models.Role) ([]models.Account, error)
}

type GradeStore interface {
	FindByStudent(ctx context.Context, studentID uint) (*models.Grade, error)
	Upsert(ctx context.Context, studentID uint, s models.Scores) (*models.Grade, error)
	TopN(ctx context.Context, n int) ([]models.RankedStudent, error)
	ListAll(ctx context.Context) ([]models.StudentGrades, error)
}

var (
	_ AccountStore = (*repo.AccountRepository)(nil)
	_ GradeStore   = (*repo.GradeRepository)(nil)
)

// roleLabel is the capitalised role used in caller-facing messages.
func roleLabel(r models.Role) string {
	if r == models.RoleInstructor {
		return "Instructor"
	}
	return "Student"
}
