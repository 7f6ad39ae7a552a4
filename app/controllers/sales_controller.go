package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/pkg/bind"
	"github.com/gfmachado/autorevenda/pkg/event"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/metrics"
	"github.com/gfmachado/autorevenda/pkg/response"
)

// SalesController is the back-office sales CRUD. All routes are admin
// only; the storefront's purchase flow goes through PurchaseController
// and results here once an admin registers the sale.
type SalesController struct {
	sales *repositories.SaleRepository
}

func NewSalesController(sales *repositories.SaleRepository) *SalesController {
	return &SalesController{sales: sales}
}

type saleInput struct {
	Date       *time.Time `json:"dataVenda"`
	Total      float64    `json:"precoTotal" validate:"required,gte=0"`
	CustomerID uint       `json:"clienteId" validate:"required"`
	Settled    bool       `json:"efetivada"`
	VehicleIDs []uint     `json:"veiculoIds" validate:"required"`
}

// Create registers a sale with its items in one transaction.
func (c *SalesController) Create(w http.ResponseWriter, r *http.Request) {
	var body saleInput
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	date := time.Now()
	if body.Date != nil {
		date = *body.Date
	}

	sale := &models.Sale{
		Date:       date,
		Total:      body.Total,
		CustomerID: body.CustomerID,
		Settled:    body.Settled,
	}
	created, err := c.sales.Create(sale, body.VehicleIDs)
	if err != nil {
		logger.WithCtx(r.Context()).Error("sale create failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao criar venda.")
		return
	}

	metrics.SalesCompleted.WithLabelValues(saleStatus(created.Settled)).Inc()
	event.FireAsync(event.SaleCreated, created)

	response.Created(w, created)
}

func (c *SalesController) FindAll(w http.ResponseWriter, r *http.Request) {
	sales, err := c.sales.FindAll()
	if err != nil {
		logger.WithCtx(r.Context()).Error("sale list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao buscar vendas.")
		return
	}
	response.OK(w, sales)
}

func (c *SalesController) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Venda não encontrada.")
		return
	}

	sale, err := c.sales.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Venda não encontrada.")
			return
		}
		logger.WithCtx(r.Context()).Error("sale lookup failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao buscar venda.")
		return
	}
	response.OK(w, sale)
}

type saleUpdateInput struct {
	Date       *time.Time `json:"dataVenda"`
	Total      *float64   `json:"precoTotal" validate:"nullable,gte=0"`
	CustomerID *uint      `json:"clienteId"`
	Settled    *bool      `json:"efetivada"`
}

// Update changes the sale header. Items are immutable after creation.
func (c *SalesController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Venda não encontrada.")
		return
	}

	var body saleUpdateInput
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	updated, err := c.sales.Update(id, repositories.SaleUpdate{
		Date:       body.Date,
		Total:      body.Total,
		CustomerID: body.CustomerID,
		Settled:    body.Settled,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Venda não encontrada.")
			return
		}
		logger.WithCtx(r.Context()).Error("sale update failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao atualizar venda.")
		return
	}

	event.FireAsync(event.SaleUpdated, updated)

	response.OK(w, updated)
}

// UpdateStatus flips the efetivada flag. Body: {"efetivada": bool}.
func (c *SalesController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Venda não encontrada.")
		return
	}

	var body struct {
		Settled *bool `json:"efetivada"`
	}
	if _, err := bind.JSON(r, &body); err != nil || body.Settled == nil {
		response.Error(w, http.StatusBadRequest, "O campo 'efetivada' deve ser um valor booleano.")
		return
	}

	updated, err := c.sales.UpdateStatus(id, *body.Settled)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Venda não encontrada.")
			return
		}
		logger.WithCtx(r.Context()).Error("sale status update failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao atualizar venda.")
		return
	}

	metrics.SalesCompleted.WithLabelValues(saleStatus(updated.Settled)).Inc()
	event.FireAsync(event.SaleUpdated, updated)

	response.OK(w, updated)
}

func (c *SalesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Venda não encontrada.")
		return
	}

	if err := c.sales.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Venda não encontrada.")
			return
		}
		logger.WithCtx(r.Context()).Error("sale delete failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao excluir venda.")
		return
	}

	event.FireAsync(event.SaleDeleted, id)

	response.NoContent(w)
}

func saleStatus(settled bool) string {
	if settled {
		return "efetivada"
	}
	return "pendente"
}
