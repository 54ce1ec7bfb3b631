package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"gradebook/backend/app/dto"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx response from the gradebook API.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Detail)
}

// Session holds the API location and the bearer token obtained at login.
type Session struct {
	BaseURL  string
	HTTP     *http.Client
	Token    string
	Role     string
	Username string
}

func NewSession() *Session {
	return &Session{HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// Login exchanges credentials for a token on the endpoint of the given role.
func (s *Session) Login(ctx context.Context, baseURL, role, username, password string) error {
	s.BaseURL = strings.TrimRight(baseURL, "/")
	form := url.Values{"username": {username}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/auth/login/"+role, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok dto.TokenResponse
	if err := s.send(req, &tok); err != nil {
		return err
	}
	s.Token = tok.AccessToken
	s.Role = tok.Role
	s.Username = username
	return nil
}

func (s *Session) Logout() {
	s.Token, s.Role, s.Username = "", "", ""
}

func (s *Session) MyGrades(ctx context.Context) (dto.GradeResponse, error) {
	var out dto.GradeResponse
	err := s.get(ctx, "/my-grades?student_name="+url.QueryEscape(s.Username), &out)
	return out, err
}

func (s *Session) TopStudents(ctx context.Context) ([]dto.TopStudent, error) {
	var out []dto.TopStudent
	err := s.get(ctx, "/top-students", &out)
	return out, err
}

func (s *Session) AllGrades(ctx context.Context) ([]dto.StudentGrades, error) {
	var out []dto.StudentGrades
	err := s.get(ctx, "/all-grades", &out)
	return out, err
}

func (s *Session) get(ctx context.Context, path string, out interface{}) error {
	if s.Token == "" {
		return fmt.Errorf("not logged in")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	return s.send(req, out)
}

func (s *Session) send(req *http.Request, out interface{}) error {
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		var e dto.ErrorResponse
		_ = json.Unmarshal(body, &e)
		return &APIError{Status: resp.StatusCode, Detail: e.Detail}
	}
	return json.Unmarshal(body, out)
}
