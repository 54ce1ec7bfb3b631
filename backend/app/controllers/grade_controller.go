package controllers

import (
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/dto"
	"gradebook/backend/app/middleware"
	"gradebook/backend/app/services"
	"net/http"
)

type GradeController struct{ Grades *services.GradeService }

func NewGradeController(grades *services.GradeService) *GradeController {
	return &GradeController{Grades: grades}
}

// Upsert handles PUT /students/grades/update-Add?student_id=N.
func (c *GradeController) Upsert(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "student_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.GradeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	scores, ok := req.Scores()
	if !ok {
		writeError(w, r, apperr.Validation("all five subject grades are required"))
		return
	}
	g, err := c.Grades.Upsert(r.Context(), id, scores)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewGradeResponse(g))
}

// MyGrades serves the authenticated student's own record.
func (c *GradeController) MyGrades(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized(nil))
		return
	}
	g, err := c.Grades.ForStudent(r.Context(), p.AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewGradeResponse(g))
}

func (c *GradeController) TopStudents(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Grades.TopStudents(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewTopStudents(rows))
}

func (c *GradeController) AllGrades(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Grades.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewStudentGrades(rows))
}
