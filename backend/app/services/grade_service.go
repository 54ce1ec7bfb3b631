package services

import (
	"context"
	"errors"
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/models"
	"gradebook/backend/app/repo"
)

// TopStudentsLimit is the size of the top-students ranking.
const TopStudentsLimit = 5

type GradeService struct {
	accounts AccountStore
	grades   GradeStore
}

func NewGradeService(accounts AccountStore, grades GradeStore) *GradeService {
	return &GradeService{accounts: accounts, grades: grades}
}

func checkRange(s models.Scores) error {
	for _, sub := range s.Subjects() {
		if sub.Value < models.MinScore || sub.Value > models.MaxScore {
			return apperr.RangeViolation(sub.Name, sub.Value)
		}
	}
	return nil
}

// Upsert creates the student's grade record or overwrites all five scores.
// Out-of-range scores are rejected before anything is written.
func (s *GradeService) Upsert(ctx context.Context, studentID uint, scores models.Scores) (*models.Grade, error) {
	if err := checkRange(scores); err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(ctx, models.RoleStudent, studentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("Student with the ID provided not found")
		}
		return nil, apperr.Internal("find student", err)
	}
	g, err := s.grades.Upsert(ctx, studentID, scores)
	switch {
	case errors.Is(err, repo.ErrCheck):
		return nil, apperr.RangeViolation("grade", -1)
	case err != nil:
		return nil, apperr.Internal("upsert grades", err)
	}
	return g, nil
}

// ForStudent returns the grade record of a student.
func (s *GradeService) ForStudent(ctx context.Context, studentID uint) (*models.Grade, error) {
	g, err := s.grades.FindByStudent(ctx, studentID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.NotFound("No grades found for this student")
	}
	if err != nil {
		return nil, apperr.Internal("find grades", err)
	}
	return g, nil
}

func (s *GradeService) TopStudents(ctx context.Context) ([]models.RankedStudent, error) {
	out, err := s.grades.TopN(ctx, TopStudentsLimit)
	if err != nil {
		return nil, apperr.Internal("top students", err)
	}
	return out, nil
}

func (s *GradeService) All(ctx context.Context) ([]models.StudentGrades, error) {
	out, err := s.grades.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal("list grades", err)
	}
	return out, nil
}
