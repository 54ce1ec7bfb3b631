package controllers

import (
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/dto"
	"gradebook/backend/app/models"
	"gradebook/backend/app/services"
	"net/http"
)

// AccountController serves CRUD for the accounts of one role.
type AccountController struct {
	Accounts *services.AccountService
	Role     models.Role
	// IDParams are the URL or query parameter names carrying the account id.
	IDParams []string
}

func NewAccountController(accounts *services.AccountService, role models.Role, idParams ...string) *AccountController {
	if len(idParams) == 0 {
		idParams = []string{"id"}
	}
	return &AccountController{Accounts: accounts, Role: role, IDParams: idParams}
}

func (c *AccountController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, c.IDParams...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := c.Accounts.Get(r.Context(), c.Role, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAccountResponse(a))
}

// Update replaces the account's mutable fields; the body must carry a password.
func (c *AccountController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, c.IDParams...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.AccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var role models.Role
	if req.Role != "" {
		if role, err = models.ParseRole(req.Role); err != nil {
			writeError(w, r, apperr.Validation("user_role must be student or instructor"))
			return
		}
	}
	a, err := c.Accounts.Update(r.Context(), c.Role, id, toInput(req, role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAccountResponse(a))
}

func (c *AccountController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, c.IDParams...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := c.Accounts.Delete(r.Context(), c.Role, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DeletedResponse{Deleted: dto.NewAccountResponse(a)})
}

func (c *AccountController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.Accounts.List(r.Context(), c.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewAccountList(list))
}
