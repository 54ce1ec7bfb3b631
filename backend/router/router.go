package router

import (
	"gradebook/backend/app/controllers"
	"gradebook/backend/app/middleware"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Controllers struct {
	HTTP        *controllers.HTTPController
	Auth        *controllers.AuthController
	Students    *controllers.AccountController
	Instructors *controllers.AccountController
	// InstructorByQuery serves the legacy ?instructor_id= update route.
	InstructorByQuery *controllers.AccountController
	Grades            *controllers.GradeController
}

func NewRouter(c Controllers, mw *middleware.Auth) http.Handler {
	r := chi.NewRouter()

	// public
	r.Get("/", c.HTTP.Root)
	r.Get("/healthz", c.HTTP.Health)
	r.Post("/auth/login/student", c.Auth.LoginStudent)
	r.Post("/auth/login/instructor", c.Auth.LoginInstructor)

	// student self-service
	r.With(mw.RequireStudent(func(r *http.Request) string {
		return r.URL.Query().Get("student_name")
	})).Get("/my-grades", c.Grades.MyGrades)

	// instructor only
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireInstructor)

		r.Post("/auth/register", c.Auth.Register)

		r.Get("/students", c.Students.List)
		r.Put("/students/grades/update-Add", c.Grades.Upsert)
		r.Put("/students/updateInfo/{id}", c.Students.Update)
		r.Get("/students/{id}", c.Students.Get)
		r.Put("/students/{id}", c.Students.Update)
		r.Delete("/students/{id}", c.Students.Delete)

		r.Get("/all-instructors", c.Instructors.List)
		r.Put("/instructor/updateInfo", c.InstructorByQuery.Update)
		r.Get("/instructor/{id}", c.Instructors.Get)
		r.Put("/instructor/{id}", c.Instructors.Update)
		r.Delete("/instructor/{id}", c.Instructors.Delete)

		r.Get("/top-students", c.Grades.TopStudents)
		r.Get("/all-grades", c.Grades.AllGrades)
	})

	return r
}
