package controllers

import (
	"errors"
	"net/http"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/pkg/bind"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/response"
)

// CategoriesController manages the vehicle categories used for
// storefront filtering.
type CategoriesController struct {
	categories *repositories.CategoryRepository
}

func NewCategoriesController(categories *repositories.CategoryRepository) *CategoriesController {
	return &CategoriesController{categories: categories}
}

func (c *CategoriesController) FindAll(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categories.FindAll()
	if err != nil {
		logger.WithCtx(r.Context()).Error("category list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao buscar categorias.")
		return
	}
	response.OK(w, categories)
}

type categoryInput struct {
	Name        string `json:"nome" validate:"required,min=2,max=100"`
	Description string `json:"descricao" validate:"nullable,max=500"`
}

func (c *CategoriesController) Create(w http.ResponseWriter, r *http.Request) {
	var body categoryInput
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "O nome da categoria é obrigatório.")
		return
	}
	if len(errs) > 0 {
		response.Error(w, http.StatusBadRequest, "O nome da categoria é obrigatório.")
		return
	}

	category := &models.Category{Name: body.Name, Description: body.Description}
	if err := c.categories.Create(category); err != nil {
		if errors.Is(err, repositories.ErrCategoryExists) {
			response.Error(w, http.StatusBadRequest, "Já existe uma categoria com este nome.")
			return
		}
		logger.WithCtx(r.Context()).Error("category create failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao criar categoria.")
		return
	}
	response.Created(w, category)
}

func (c *CategoriesController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Categoria não encontrada.")
		return
	}

	var body categoryInput
	errs, err := bind.JSON(r, &body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "O nome da categoria é obrigatório.")
		return
	}
	if len(errs) > 0 {
		response.Error(w, http.StatusBadRequest, "O nome da categoria é obrigatório.")
		return
	}

	updated, err := c.categories.Update(id, &models.Category{Name: body.Name, Description: body.Description})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			response.NotFound(w, "Categoria não encontrada.")
		case errors.Is(err, repositories.ErrCategoryExists):
			response.Error(w, http.StatusBadRequest, "Já existe uma categoria com este nome.")
		default:
			logger.WithCtx(r.Context()).Error("category update failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Erro ao atualizar categoria.")
		}
		return
	}
	response.OK(w, updated)
}

// Delete removes a category. Categories still referenced by vehicles
// cannot be removed; retrying yields the same 400.
func (c *CategoriesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Categoria não encontrada.")
		return
	}

	if err := c.categories.Delete(id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			response.NotFound(w, "Categoria não encontrada.")
		case errors.Is(err, repositories.ErrCategoryInUse):
			response.Error(w, http.StatusBadRequest,
				"Não é possível excluir a categoria, pois ela está associada a um ou mais veículos.")
		default:
			logger.WithCtx(r.Context()).Error("category delete failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Erro ao excluir categoria.")
		}
		return
	}
	response.NoContent(w)
}
