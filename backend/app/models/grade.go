package models

import "time"

const (
	MinScore = 0
	MaxScore = 20
)

// Scores are the five subject marks of a grade record.
type Scores struct {
	PureMaths       int `gorm:"not null;check:chk_grades_pure_maths,pure_maths BETWEEN 0 AND 20"`
	Chemistry       int `gorm:"not null;check:chk_grades_chemistry,chemistry BETWEEN 0 AND 20"`
	Biology         int `gorm:"not null;check:chk_grades_biology,biology BETWEEN 0 AND 20"`
	ComputerScience int `gorm:"not null;check:chk_grades_computer_science,computer_science BETWEEN 0 AND 20"`
	Physics         int `gorm:"not null;check:chk_grades_physics,physics BETWEEN 0 AND 20"`
}

// Subject pairs a column name with its mark, in column order.
type Subject struct {
	Name  string
	Value int
}

func (s Scores) Subjects() []Subject {
	return []Subject{
		{"pure_maths", s.PureMaths},
		{"chemistry", s.Chemistry},
		{"biology", s.Biology},
		{"computer_science", s.ComputerScience},
		{"physics", s.Physics},
	}
}

func (s Scores) Average() float64 {
	return float64(s.PureMaths+s.Chemistry+s.Biology+s.ComputerScience+s.Physics) / 5.0
}

// Grade is one-to-one with a student and is removed with it.
type Grade struct {
	ID        uint    `gorm:"primaryKey"`
	StudentID uint    `gorm:"uniqueIndex;not null"`
	Student   Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Scores    `gorm:"embedded"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RankedStudent is a row of the top-students query.
type RankedStudent struct {
	ID           uint
	Username     string
	FirstName    string
	LastName     string
	AverageMarks float64
}

// StudentGrades is a row of the all-grades query.
type StudentGrades struct {
	ID        uint
	Username  string
	FirstName string
	LastName  string
	Scores    `gorm:"embedded"`
}
