package dto

import "gradebook/backend/app/models"

// GradeRequest requires all five subjects; a missing one is rejected rather
// than stored as zero.
type GradeRequest struct {
	PureMaths       *int `json:"pure_maths"`
	Chemistry       *int `json:"chemistry"`
	Biology         *int `json:"biology"`
	ComputerScience *int `json:"computer_science"`
	Physics         *int `json:"physics"`
}

func (r GradeRequest) Scores() (models.Scores, bool) {
	if r.PureMaths == nil || r.Chemistry == nil || r.Biology == nil || r.ComputerScience == nil || r.Physics == nil {
		return models.Scores{}, false
	}
	return models.Scores{
		PureMaths:       *r.PureMaths,
		Chemistry:       *r.Chemistry,
		Biology:         *r.Biology,
		ComputerScience: *r.ComputerScience,
		Physics:         *r.Physics,
	}, true
}

type Subjects struct {
	PureMaths       int `json:"pure_maths"`
	Chemistry       int `json:"chemistry"`
	Biology         int `json:"biology"`
	ComputerScience int `json:"computer_science"`
	Physics         int `json:"physics"`
}

func newSubjects(s models.Scores) Subjects {
	return Subjects{PureMaths: s.PureMaths, Chemistry: s.Chemistry, Biology: s.Biology, ComputerScience: s.ComputerScience, Physics: s.Physics}
}

type GradeResponse struct {
	StudentID uint `json:"student_id"`
	Subjects
}

func NewGradeResponse(g *models.Grade) GradeResponse {
	return GradeResponse{StudentID: g.StudentID, Subjects: newSubjects(g.Scores)}
}

type TopStudent struct {
	ID           uint    `json:"id"`
	Username     string  `json:"userName"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	AverageMarks float64 `json:"average_marks"`
}

func NewTopStudents(rows []models.RankedStudent) []TopStudent {
	out := make([]TopStudent, 0, len(rows))
	for _, r := range rows {
		out = append(out, TopStudent{ID: r.ID, Username: r.Username, FirstName: r.FirstName, LastName: r.LastName, AverageMarks: r.AverageMarks})
	}
	return out
}

type StudentGrades struct {
	ID        uint     `json:"id"`
	Username  string   `json:"userName"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Grades    Subjects `json:"grades"`
}

func NewStudentGrades(rows []models.StudentGrades) []StudentGrades {
	out := make([]StudentGrades, 0, len(rows))
	for _, r := range rows {
		out = append(out, StudentGrades{ID: r.ID, Username: r.Username, FirstName: r.FirstName, LastName: r.LastName, Grades: newSubjects(r.Scores)})
	}
	return out
}
