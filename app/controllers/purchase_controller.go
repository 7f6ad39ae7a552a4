package controllers

import (
	"errors"
	"net/http"

	"github.com/gfmachado/autorevenda/app/jobs"
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/pkg/bind"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/middleware"
	"github.com/gfmachado/autorevenda/pkg/queue"
	"github.com/gfmachado/autorevenda/pkg/response"
)

// PurchaseController handles the storefront's formal purchase intent: a
// logged-in customer points at a vehicle, the dealer gets a mail with
// both profiles and follows up by hand. Nothing is persisted here; the
// sale itself is registered later through the back office.
type PurchaseController struct {
	customers *repositories.CustomerRepository
	vehicles  *repositories.VehicleRepository
}

func NewPurchaseController(customers *repositories.CustomerRepository, vehicles *repositories.VehicleRepository) *PurchaseController {
	return &PurchaseController{customers: customers, vehicles: vehicles}
}

type purchaseInput struct {
	VehicleID uint `json:"vehicleId" validate:"required"`
}

func (c *PurchaseController) Request(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Error(w, http.StatusBadRequest,
			"ID do veículo e autenticação do cliente são obrigatórios.")
		return
	}

	var body purchaseInput
	errs, err := bind.JSON(r, &body)
	if err != nil || len(errs) > 0 {
		response.Error(w, http.StatusBadRequest,
			"ID do veículo e autenticação do cliente são obrigatórios.")
		return
	}

	customer, err := c.customers.FindByID(claims.UserID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.WithCtx(r.Context()).Error("purchase customer lookup failed", "error", err)
		response.Error(w, http.StatusInternalServerError,
			"Não foi possível processar sua solicitação. Tente novamente mais tarde.")
		return
	}

	vehicle, err := c.vehicles.FindByID(body.VehicleID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.WithCtx(r.Context()).Error("purchase vehicle lookup failed", "error", err)
		response.Error(w, http.StatusInternalServerError,
			"Não foi possível processar sua solicitação. Tente novamente mais tarde.")
		return
	}

	if customer == nil || vehicle == nil {
		response.NotFound(w, "Cliente ou veículo não encontrado.")
		return
	}

	job := &jobs.PurchaseRequestMail{
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		VehicleID:       vehicle.ID,
		VehicleTitle:    vehicle.Title,
		VehiclePrice:    vehicle.Price,
	}
	if err := queue.Dispatch(job); err != nil {
		logger.WithCtx(r.Context()).Error("purchase mail dispatch failed", "error", err)
		response.Error(w, http.StatusInternalServerError,
			"Não foi possível processar sua solicitação. Tente novamente mais tarde.")
		return
	}

	response.OK(w, map[string]string{
		"message": "Sua solicitação de compra foi enviada com sucesso! Entraremos em contato em breve.",
	})
}
