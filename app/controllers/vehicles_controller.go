package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/pkg/bind"
	"github.com/gfmachado/autorevenda/pkg/event"
	"github.com/gfmachado/autorevenda/pkg/logger"
	"github.com/gfmachado/autorevenda/pkg/metrics"
	"github.com/gfmachado/autorevenda/pkg/response"
	"github.com/gfmachado/autorevenda/pkg/storage"
	"github.com/gfmachado/autorevenda/pkg/workerpool"
)

// maxVehicleImages caps the `imagens` multipart field.
const maxVehicleImages = 10

// VehiclesController manages the inventory. Create and Update receive
// multipart forms because the storefront uploads photos together with the
// vehicle data; images land on the configured Disk before the database
// transaction runs, and files orphaned by a failed commit (or replaced on
// update) are unlinked in the background pool.
type VehiclesController struct {
	vehicles *repositories.VehicleRepository
	disk     storage.Disk
	unlinks  *workerpool.Pool
}

func NewVehiclesController(vehicles *repositories.VehicleRepository, disk storage.Disk, unlinks *workerpool.Pool) *VehiclesController {
	return &VehiclesController{vehicles: vehicles, disk: disk, unlinks: unlinks}
}

// FindAll lists vehicles with optional filters and pagination, newest
// first.
func (c *VehiclesController) FindAll(w http.ResponseWriter, r *http.Request) {
	filters := repositories.VehicleFilters{
		TitleContains: bind.QueryString(r, "titulo", ""),
		Make:          bind.QueryString(r, "marca", ""),
		FactoryYear:   bind.QueryInt(r, "anoFabricacao", 0),
	}
	if raw := r.URL.Query().Get("precoMin"); raw != "" {
		filters.PriceMin, _ = strconv.ParseFloat(raw, 64)
	}
	if raw := r.URL.Query().Get("precoMax"); raw != "" {
		filters.PriceMax, _ = strconv.ParseFloat(raw, 64)
	}

	page := bind.QueryInt(r, "page", 1)
	limit := bind.QueryInt(r, "limit", 12)

	vehicles, err := c.vehicles.FindAll(filters, page, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("vehicle list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao buscar veículos.")
		return
	}
	response.OK(w, vehicles)
}

// FindMostSold lists the best-selling vehicles for the storefront's
// highlight strip.
func (c *VehiclesController) FindMostSold(w http.ResponseWriter, r *http.Request) {
	limit := bind.QueryInt(r, "limit", 8)

	vehicles, err := c.vehicles.FindMostSold(limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("most-sold list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao buscar veículos.")
		return
	}
	response.OK(w, vehicles)
}

func (c *VehiclesController) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Veículo não encontrado.")
		return
	}

	vehicle, err := c.vehicles.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Veículo não encontrado.")
			return
		}
		logger.WithCtx(r.Context()).Error("vehicle lookup failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao buscar veículo.")
		return
	}
	response.OK(w, vehicle)
}

// Create stores a new vehicle from a multipart form. At least one image
// is required; files are written to storage first and rolled back in the
// background if the insert fails.
func (c *VehiclesController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	vehicle, msg := vehicleFromForm(r)
	if msg != "" {
		response.Error(w, http.StatusBadRequest, msg)
		return
	}

	files := r.MultipartForm.File["imagens"]
	if len(files) == 0 {
		response.Error(w, http.StatusBadRequest, "Pelo menos uma imagem é necessária.")
		return
	}
	if len(files) > maxVehicleImages {
		response.Error(w, http.StatusBadRequest,
			fmt.Sprintf("Máximo de %d imagens por veículo.", maxVehicleImages))
		return
	}

	names, err := c.storeImages(files)
	if err != nil {
		logger.WithCtx(r.Context()).Error("image upload failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao salvar imagens.")
		return
	}

	if err := c.vehicles.Create(vehicle, names); err != nil {
		c.unlinkLater(names)
		logger.WithCtx(r.Context()).Error("vehicle create failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Ocorreu um erro inesperado ao criar o veículo.")
		return
	}

	event.FireAsync(event.VehicleCreated, vehicle)

	response.Created(w, vehicle)
}

// Update replaces the vehicle's data and, when the form carries new
// `imagens`, its photo set. Without new files the current photos stay.
func (c *VehiclesController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Veículo não encontrado.")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	vehicle, msg := vehicleFromForm(r)
	if msg != "" {
		response.Error(w, http.StatusBadRequest, msg)
		return
	}

	files := r.MultipartForm.File["imagens"]
	if len(files) > maxVehicleImages {
		response.Error(w, http.StatusBadRequest,
			fmt.Sprintf("Máximo de %d imagens por veículo.", maxVehicleImages))
		return
	}

	var names []string // nil keeps the current photo set
	if len(files) > 0 {
		var err error
		names, err = c.storeImages(files)
		if err != nil {
			logger.WithCtx(r.Context()).Error("image upload failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Erro ao salvar imagens.")
			return
		}
	}

	replaced, err := c.vehicles.Update(id, vehicle, names)
	if err != nil {
		c.unlinkLater(names)
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Veículo não encontrado.")
			return
		}
		logger.WithCtx(r.Context()).Error("vehicle update failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao atualizar veículo.")
		return
	}
	c.unlinkLater(replaced)

	updated, err := c.vehicles.FindByID(id)
	if err != nil {
		logger.WithCtx(r.Context()).Error("vehicle re-fetch failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Erro ao atualizar veículo.")
		return
	}
	response.OK(w, updated)
}

// Delete removes an unsold vehicle and schedules its photos for unlink.
func (c *VehiclesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w, "Veículo não encontrado.")
		return
	}

	filenames, err := c.vehicles.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			response.NotFound(w, "Veículo não encontrado.")
		case errors.Is(err, repositories.ErrVehicleSold):
			response.Error(w, http.StatusBadRequest, "Não é possível excluir um veículo que já foi vendido.")
		default:
			logger.WithCtx(r.Context()).Error("vehicle delete failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Erro ao excluir veículo.")
		}
		return
	}
	c.unlinkLater(filenames)

	event.FireAsync(event.VehicleDeleted, id)

	response.NoContent(w)
}

// vehicleFromForm coerces the multipart text fields into a Vehicle.
// Returns a user-facing message on the first invalid field.
func vehicleFromForm(r *http.Request) (*models.Vehicle, string) {
	v := &models.Vehicle{
		Title:          strings.TrimSpace(r.FormValue("titulo")),
		Description:    r.FormValue("descricao"),
		Model:          r.FormValue("modelo"),
		Make:           r.FormValue("marca"),
		Color:          r.FormValue("cor"),
		Documentation:  r.FormValue("documentacao"),
		ServiceHistory: r.FormValue("revisoes"),
	}
	if v.Title == "" {
		return nil, "O campo titulo é obrigatório."
	}

	price, err := strconv.ParseFloat(r.FormValue("preco"), 64)
	if err != nil || price <= 0 {
		return nil, "O campo preco deve ser um número positivo."
	}
	v.Price = price

	categoryID, err := strconv.ParseUint(r.FormValue("categoriaId"), 10, 32)
	if err != nil || categoryID == 0 {
		return nil, "O campo categoriaId é obrigatório."
	}
	v.CategoryID = uint(categoryID)

	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"anoFabricacao", &v.FactoryYear},
		{"anoModelo", &v.ModelYear},
		{"quilometragem", &v.Mileage},
	} {
		raw := r.FormValue(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Sprintf("O campo %s deve ser um número inteiro.", f.name)
		}
		*f.dst = n
	}

	return v, ""
}

// storeImages writes each upload to the disk under a collision-safe name
// (random hex prefix + original filename) and returns the stored names in
// upload order.
func (c *VehiclesController) storeImages(files []*multipart.FileHeader) ([]string, error) {
	names := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := c.storeImage(fh)
		if err != nil {
			c.unlinkLater(names)
			return nil, err
		}
		names = append(names, name)
		metrics.UploadedImages.Inc()
	}
	return names, nil
}

func (c *VehiclesController) storeImage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	name := hex.EncodeToString(buf) + "-" + filepath.Base(fh.Filename)

	if err := c.disk.PutStream(name, src); err != nil {
		return "", err
	}
	return name, nil
}

// unlinkLater deletes stored files outside the request path. Best effort:
// a full pool means the daily reconciliation sweep picks the file up.
func (c *VehiclesController) unlinkLater(names []string) {
	for _, name := range names {
		name := name
		err := c.unlinks.Submit(func() {
			if err := c.disk.Delete(name); err != nil {
				logger.Warn("image unlink failed", "file", name, "error", err)
			}
		})
		if err != nil {
			logger.Warn("image unlink not scheduled", "file", name, "error", err)
		}
	}
}
