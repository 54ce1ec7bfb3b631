package dto

import (
	"encoding/json"
	"fmt"
	"gradebook/backend/app/models"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct{ time.Time }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	d.Time = t
	return nil
}

type AccountRequest struct {
	Username    string `json:"userName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	DateOfBirth Date   `json:"dateOfBirth"`
	Role        string `json:"user_role"`
	Password    string `json:"password"`
}

type AccountResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"userName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	DateOfBirth Date   `json:"dateOfBirth"`
	Role        string `json:"user_role"`
}

func NewAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		DateOfBirth: Date{a.DateOfBirth},
		Role:        a.Role.String(),
	}
}

func NewAccountList(list []models.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(list))
	for i := range list {
		out = append(out, NewAccountResponse(&list[i]))
	}
	return out
}

type DeletedResponse struct {
	Deleted AccountResponse `json:"Deleted Info"`
}
