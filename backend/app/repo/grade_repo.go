package repo

import (
	"context"
	"gradebook/backend/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const averageExpr = "(grades.pure_maths + grades.chemistry + grades.biology + grades.computer_science + grades.physics) / 5.0"

type GradeRepository struct{ db *gorm.DB }

func NewGradeRepository(db *gorm.DB) *GradeRepository { return &GradeRepository{db: db} }

func (r *GradeRepository) FindByStudent(ctx context.Context, studentID uint) (*models.Grade, error) {
	var g models.Grade
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&g).Error; err != nil {
		return nil, wrap(err, "find grades of student %d", studentID)
	}
	return &g, nil
}

// Upsert inserts the record or overwrites all five scores in a single
// statement, so concurrent calls for one student never duplicate rows.
func (r *GradeRepository) Upsert(ctx context.Context, studentID uint, s models.Scores) (*models.Grade, error) {
	g := models.Grade{StudentID: studentID, Scores: s}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"pure_maths", "chemistry", "biology", "computer_science", "physics", "updated_at"}),
		}).
		Create(&g).Error
	if err != nil {
		return nil, wrap(err, "upsert grades of student %d", studentID)
	}
	return r.FindByStudent(ctx, studentID)
}

// TopN ranks graded students by average, highest first; ties go to the lower id.
func (r *GradeRepository) TopN(ctx context.Context, n int) ([]models.RankedStudent, error) {
	out := []models.RankedStudent{}
	err := r.db.WithContext(ctx).
		Table("students").
		Select("students.id, students.username, students.first_name, students.last_name, " + averageExpr + " AS average_marks").
		Joins("JOIN grades ON grades.student_id = students.id").
		Order("average_marks DESC").
		Order("students.id ASC").
		Limit(n).
		Scan(&out).Error
	if err != nil {
		return nil, wrap(err, "top %d students", n)
	}
	return out, nil
}

// ListAll returns every graded student ordered by id.
func (r *GradeRepository) ListAll(ctx context.Context) ([]models.StudentGrades, error) {
	out := []models.StudentGrades{}
	err := r.db.WithContext(ctx).
		Table("students").
		Select("students.id, students.username, students.first_name, students.last_name, " +
			"grades.pure_maths, grades.chemistry, grades.biology, grades.computer_science, grades.physics").
		Joins("JOIN grades ON grades.student_id = students.id").
		Order("students.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, wrap(err, "list grades")
	}
	return out, nil
}
