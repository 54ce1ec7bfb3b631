package controllers

import (
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/dto"
	"gradebook/backend/app/models"
	"gradebook/backend/app/services"
	"mime"
	"net/http"
)

type AuthController struct {
	Auth     *services.AuthService
	Accounts *services.AccountService
}

func NewAuthController(auth *services.AuthService, accounts *services.AccountService) *AuthController {
	return &AuthController{Auth: auth, Accounts: accounts}
}

// credentials reads username/password from a form body, or from JSON when
// the request says so.
func credentials(w http.ResponseWriter, r *http.Request) (dto.LoginRequest, error) {
	var req dto.LoginRequest
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/json" {
		err := decodeJSON(w, r, &req)
		return req, err
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return req, apperr.Validation("invalid form body")
	}
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")
	return req, nil
}

func (c *AuthController) login(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := credentials(w, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		res, err := c.Auth.Login(r.Context(), req.Username, req.Password, role)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.TokenResponse{
			AccessToken: res.AccessToken,
			TokenType:   res.TokenType,
			Role:        res.Role.String(),
			ExpiresAt:   res.ExpiresAt.Unix(),
		})
	}
}

func (c *AuthController) LoginStudent(w http.ResponseWriter, r *http.Request) {
	c.login(models.RoleStudent)(w, r)
}

func (c *AuthController) LoginInstructor(w http.ResponseWriter, r *http.Request) {
	c.login(models.RoleInstructor)(w, r)
}

// Register creates a student or instructor account chosen by user_role.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.AccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		writeError(w, r, apperr.Validation("user_role must be student or instructor"))
		return
	}
	a, err := c.Accounts.Create(r.Context(), toInput(req, role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewAccountResponse(a))
}

func toInput(req dto.AccountRequest, role models.Role) services.AccountInput {
	return services.AccountInput{
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth.Time,
		Role:        role,
		Password:    req.Password,
	}
}
