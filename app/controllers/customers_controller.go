package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/pkg/auth"
	"github.com/gfmachado/autorevenda/pkg/bind"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/middleware"
	"github.com/gfmachado/autorevenda/pkg/response"
	"github.com/gfmachado/autorevenda/pkg/router"
)

// CustomersController exposes the customer CRUD used by the back office.
// Read/update/delete on a specific customer are allowed to admins and to
// the customer themselves; listing is admin only.
type CustomersController struct {
	customers *repositories.CustomerRepository
}

func NewCustomersController(customers *repositories.CustomerRepository) *CustomersController {
	return &CustomersController{customers: customers}
}

// canAccess reports whether the caller may act on the customer id.
func canAccess(claims *auth.Claims, id uint) bool {
	if claims == nil {
		return false
	}
	return claims.Role == auth.RoleAdmin || claims.UserID == id
}

func paramID(r *http.Request) (uint, bool) {
	raw := router.Param(r, "id")
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// FindAll lists every customer. Admin only (enforced by route middleware).
func (c *CustomersController) FindAll(w http.ResponseWriter, r *http.Request) {
	customers, err := c.customers.FindAll()
	if err != nil {
		logger.WithCtx(r.Context()).Error("customer list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}
	response.OK(w, customers)
}

func (c *CustomersController) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Cliente não encontrado.")
		return
	}
	if !canAccess(middleware.ClaimsFromCtx(r.Context()), id) {
		response.Forbidden(w, "Acesso negado.")
		return
	}

	customer, err := c.customers.FindByID(id)
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

func (c *CustomersController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Cliente não encontrado.")
		return
	}
	if !canAccess(middleware.ClaimsFromCtx(r.Context()), id) {
		response.Forbidden(w, "Acesso negado.")
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

	updated, err := c.customers.Update(id, repositories.CustomerUpdate{
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

func (c *CustomersController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Cliente não encontrado.")
		return
	}
	if !canAccess(middleware.ClaimsFromCtx(r.Context()), id) {
		response.Forbidden(w, "Acesso negado.")
		return
	}

	if err := c.customers.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Cliente não encontrado.")
			return
		}
		logger.WithCtx(r.Context()).Error("customer delete failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}
	response.NoContent(w)
}
