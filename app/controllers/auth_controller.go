package controllers

import (
	"errors"
	"net/http"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/app/services"
	"github.com/gfmachado/autorevenda/pkg/auth"
	"github.com/gfmachado/autorevenda/pkg/bind"
	"github.com/gfmachado/autorevenda/pkg/event"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/middleware"
	"github.com/gfmachado/autorevenda/pkg/response"
)

// AuthController handles storefront customer self-service: register,
// login and the /auth/me profile routes.
type AuthController struct {
	customers     *repositories.CustomerRepository
	authenticator *services.Authenticator
}

func NewAuthController(customers *repositories.CustomerRepository, authenticator *services.Authenticator) *AuthController {
	return &AuthController{customers: customers, authenticator: authenticator}
}

type registerInput struct {
	Name     string `json:"nome" validate:"required,min=2,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required,min=6"`
	Phone    string `json:"telefone" validate:"nullable,max=30"`
	Address  string `json:"endereco" validate:"nullable,max=255"`
}

// Register creates a customer account and returns it together with a
// fresh token, so the storefront logs the user straight in.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body registerInput
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Nome, email e senha são obrigatórios.")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		logger.WithCtx(r.Context()).Error("password hash failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	customer := &models.Customer{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: hash,
		Phone:        body.Phone,
		Address:      body.Address,
	}
	if err := c.customers.Create(customer); err != nil {
		if errors.Is(err, repositories.ErrEmailInUse) {
			response.Error(w, http.StatusBadRequest, "O email fornecido já está em uso.")
			return
		}
		logger.WithCtx(r.Context()).Error("customer create failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao criar cliente.")
		return
	}

	token, err := auth.Issue(customer.ID, customer.Email, auth.RoleClient)
	if err != nil {
		logger.WithCtx(r.Context()).Error("token issue failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	event.FireAsync(event.CustomerRegistered, customer)

	response.Created(w, map[string]interface{}{
		"user":  customer,
		"token": token,
	})
}

// Login authenticates a customer and returns a token.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Email e senha são obrigatórios.")
		return
	}
	if body.Email == "" || body.Password == "" {
		response.Error(w, http.StatusBadRequest, "Email e senha são obrigatórios.")
		return
	}

	customer, err := c.authenticator.AuthenticateCustomer(body.Email, body.Password)
	if err != nil {
		logger.WithCtx(r.Context()).Error("customer login failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}
	if customer == nil {
		response.Unauthorized(w, "Email ou senha incorretos.")
		return
	}

	token, err := auth.Issue(customer.ID, customer.Email, auth.RoleClient)
	if err != nil {
		logger.WithCtx(r.Context()).Error("token issue failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	response.OK(w, map[string]interface{}{
		"user":  customer,
		"token": token,
	})
}

// Me returns the authenticated customer's profile.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w, middleware.MsgTokenMissing)
		return
	}

	customer, err := c.customers.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Cliente não encontrado.")
			return
		}
		logger.WithCtx(r.Context()).Error("customer lookup failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	response.OK(w, customer)
}

type profileInput struct {
	Name     *string `json:"nome" validate:"nullable,min=2,max=150"`
	Email    *string `json:"email" validate:"nullable,email"`
	Password *string `json:"senha" validate:"nullable,min=6"`
	Phone    *string `json:"telefone" validate:"nullable,max=30"`
	Address  *string `json:"endereco" validate:"nullable,max=255"`
}

// UpdateMe partially updates the authenticated customer's profile.
// Absent fields keep their current values.
func (c *AuthController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w, middleware.MsgTokenMissing)
		return
	}

	var body profileInput
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	updated, err := c.customers.Update(claims.UserID, repositories.CustomerUpdate{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Phone:    body.Phone,
		Address:  body.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			response.NotFound(w, "Cliente não encontrado.")
		case errors.Is(err, repositories.ErrEmailInUse):
			response.Error(w, http.StatusBadRequest, "O email fornecido já está em uso.")
		default:
			logger.WithCtx(r.Context()).Error("customer update failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Erro interno do servidor.")
		}
		return
	}

	response.OK(w, updated)
}
