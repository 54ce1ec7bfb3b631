package repo

import (
	"context"
	"gradebook/backend/app/models"
	"time"

	"github.com/samber/oops"
	"gorm.io/gorm"
)

// AccountFields are the mutable columns of an account.
type AccountFields struct {
	FirstName    string
	LastName     string
	Email        string
	DateOfBirth  time.Time
	PasswordHash string
}

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

func (r *AccountRepository) table(ctx context.Context, role models.Role) *gorm.DB {
	return r.db.WithContext(ctx).Table(role.Table())
}

func (r *AccountRepository) FindByUsername(ctx context.Context, role models.Role, username string) (*models.Account, error) {
	var a models.Account
	if err := r.table(ctx, role).Where("username = ?", username).First(&a).Error; err != nil {
		return nil, wrap(err, "find %s by username", role)
	}
	return &a, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, role models.Role, id uint) (*models.Account, error) {
	var a models.Account
	if err := r.table(ctx, role).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, wrap(err, "find %s %d", role, id)
	}
	return &a, nil
}

func (r *AccountRepository) CountByUsername(ctx context.Context, role models.Role, username string) (int64, error) {
	var count int64
	err := r.table(ctx, role).Where("username = ?", username).Count(&count).Error
	return count, wrap(err, "count %s", role)
}

// Insert stores a in the partition of a.Role and sets a.ID.
func (r *AccountRepository) Insert(ctx context.Context, a *models.Account) error {
	return wrap(r.table(ctx, a.Role).Create(a).Error, "insert %s", a.Role)
}

func (r *AccountRepository) Update(ctx context.Context, role models.Role, id uint, f AccountFields) (*models.Account, error) {
	var out models.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(role.Table()).Where("id = ?", id).First(&out).Error; err != nil {
			return err
		}
		now := time.Now()
		if err := tx.Table(role.Table()).Where("id = ?", id).Updates(map[string]interface{}{
			"first_name":    f.FirstName,
			"last_name":     f.LastName,
			"email":         f.Email,
			"date_of_birth": f.DateOfBirth,
			"password_hash": f.PasswordHash,
			"updated_at":    now,
		}).Error; err != nil {
			return err
		}
		out.FirstName, out.LastName, out.Email = f.FirstName, f.LastName, f.Email
		out.DateOfBirth, out.PasswordHash, out.UpdatedAt = f.DateOfBirth, f.PasswordHash, now
		return nil
	})
	if err != nil {
		return nil, wrap(err, "update %s %d", role, id)
	}
	return &out, nil
}

// Delete removes the account and, for students, its grade record in one
// transaction. The removed account is returned.
func (r *AccountRepository) Delete(ctx context.Context, role models.Role, id uint) (*models.Account, error) {
	var out models.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(role.Table()).Where("id = ?", id).First(&out).Error; err != nil {
			return err
		}
		if role == models.RoleStudent {
			if err := tx.Where("student_id = ?", id).Delete(&models.Grade{}).Error; err != nil {
				return err
			}
		}
		return tx.Table(role.Table()).Where("id = ?", id).Delete(&models.Account{}).Error
	})
	if err != nil {
		return nil, wrap(err, "delete %s %d", role, id)
	}
	return &out, nil
}

func (r *AccountRepository) ListAll(ctx context.Context, role models.Role) ([]models.Account, error) {
	out := []models.Account{}
	if err := r.table(ctx, role).Order("id ASC").Find(&out).Error; err != nil {
		return nil, wrap(err, "list %s", role)
	}
	return out, nil
}

// wrap keeps sentinel errors matchable with errors.Is while adding context.
func wrap(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return oops.Wrapf(translate(err), format, args...)
}
