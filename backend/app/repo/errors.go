package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
	ErrCheck     = errors.New("check constraint violated")
)

// translate folds driver errors into the package sentinels. Drivers that
// gorm cannot translate are matched on their message.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return ErrCheck
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate"):
		return ErrDuplicate
	case strings.Contains(msg, "check constraint"):
		return ErrCheck
	}
	return err
}
