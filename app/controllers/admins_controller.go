// Package controllers holds the HTTP handlers. Controllers bind and
// validate the request, call repositories/services and translate their
// errors into the API's status codes and Portuguese messages.
package controllers

import (
	"net/http"

	"github.com/gfmachado/autorevenda/app/services"
	"github.com/gfmachado/autorevenda/pkg/auth"
	"github.com/gfmachado/autorevenda/pkg/bind"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/response"
)

// AdminsController handles back-office operator authentication. Admin
// accounts are seeded, never self-registered, so login is the only route.
type AdminsController struct {
	authenticator *services.Authenticator
}

func NewAdminsController(authenticator *services.Authenticator) *AdminsController {
	return &AdminsController{authenticator: authenticator}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// Login issues an admin JWT. The 401 message never reveals whether the
// email or the password was wrong.
func (c *AdminsController) Login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Email e senha são obrigatórios.")
		return
	}
	if body.Email == "" || body.Password == "" {
		response.Error(w, http.StatusBadRequest, "Email e senha são obrigatórios.")
		return
	}

	admin, err := c.authenticator.AuthenticateAdmin(body.Email, body.Password)
	if err != nil {
		logger.WithCtx(r.Context()).Error("admin login failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}
	if admin == nil {
		response.Unauthorized(w, "Email ou senha incorretos.")
		return
	}

	token, err := auth.Issue(admin.ID, admin.Email, auth.RoleAdmin)
	if err != nil {
		logger.WithCtx(r.Context()).Error("token issue failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	response.OK(w, map[string]interface{}{
		"user":  map[string]string{"email": admin.Email},
		"token": token,
	})
}
