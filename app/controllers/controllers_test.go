package controllers_test

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gfmachado/autorevenda/app/controllers"
	"github.com/gfmachado/autorevenda/app/models"
	"github.com/gfmachado/autorevenda/app/repositories"
	"github.com/gfmachado/autorevenda/app/routes"
	"github.com/gfmachado/autorevenda/app/services"
	"github.com/gfmachado/autorevenda/pkg/auth"
	"github.com/gfmachado/autorevenda/pkg/database"
	"github.com/gfmachado/autorevenda/pkg/router"
	"github.com/gfmachado/autorevenda/pkg/storage"
	"github.com/gfmachado/autorevenda/pkg/workerpool"
	"github.com/gfmachado/autorevenda/pkg/ws"
)

type testApp struct {
	db      *gorm.DB
	handler http.Handler
}

// newTestApp wires the whole API over a fresh in-memory database and a
// temp-dir local disk.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	t.Setenv("STORAGE_LOCAL_ROOT", t.TempDir())

	buf := make([]byte, 8)
	_, err := rand.Read(buf)
	require.NoError(t, err)

	db, err := database.Connect("sqlite",
		fmt.Sprintf("file:ctl_%s?mode=memory&cache=shared", hex.EncodeToString(buf)))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Admin{}, &models.Customer{}, &models.Category{},
		&models.Vehicle{}, &models.VehicleImage{}, &models.Sale{}, &models.SaleItem{},
	))

	disk, err := storage.New("local")
	require.NoError(t, err)

	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)

	hub := ws.NewHub()
	go hub.Run()

	admins := repositories.NewAdminRepository(db)
	customers := repositories.NewCustomerRepository(db)
	categories := repositories.NewCategoryRepository(db, nil)
	vehicles := repositories.NewVehicleRepository(db)
	sales := repositories.NewSaleRepository(db)
	dashboard := repositories.NewDashboardRepository(db, nil)
	authenticator := services.NewAuthenticator(admins, customers)

	r := router.New()
	routes.RegisterAPI(r, routes.Controllers{
		Admins:     controllers.NewAdminsController(authenticator),
		Auth:       controllers.NewAuthController(customers, authenticator),
		Customers:  controllers.NewCustomersController(customers),
		Vehicles:   controllers.NewVehiclesController(vehicles, disk, pool),
		Categories: controllers.NewCategoriesController(categories),
		Sales:      controllers.NewSalesController(sales),
		Dashboard:  controllers.NewDashboardController(dashboard, hub),
		Contact:    controllers.NewContactController(),
		Purchase:   controllers.NewPurchaseController(customers, vehicles),
		Files:      controllers.NewFilesController(disk),
	})

	return &testApp{db: db, handler: r.Handler()}
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body.Message
}

func (a *testApp) seedAdmin(t *testing.T, email, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	admin := &models.Admin{Email: email, PasswordHash: hash}
	require.NoError(t, a.db.Create(admin).Error)

	token, err := auth.Issue(admin.ID, admin.Email, auth.RoleAdmin)
	require.NoError(t, err)
	return token
}

func (a *testApp) seedCustomer(t *testing.T, email string) (*models.Customer, string) {
	t.Helper()
	hash, err := auth.HashPassword("segredo1")
	require.NoError(t, err)
	c := &models.Customer{Name: "Cliente Teste", Email: email, PasswordHash: hash}
	require.NoError(t, a.db.Create(c).Error)

	token, err := auth.Issue(c.ID, c.Email, auth.RoleClient)
	require.NoError(t, err)
	return c, token
}

func (a *testApp) seedCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, a.db.Create(c).Error)
	return c
}

// ── adms ─────────────────────────────────────────────────────────────────────

func TestAdminLoginFlow(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "adm@example.com", "admin123")

	rec := app.request(t, http.MethodPost, "/api/adms/login", "", map[string]string{
		"email": "adm@example.com", "senha": "admin123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "adm@example.com", body.User.Email)

	claims, err := auth.Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestAdminLoginRejections(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "adm@example.com", "admin123")

	rec := app.request(t, http.MethodPost, "/api/adms/login", "", map[string]string{"email": "adm@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email e senha são obrigatórios.", message(t, rec))

	rec = app.request(t, http.MethodPost, "/api/adms/login", "", map[string]string{
		"email": "adm@example.com", "senha": "errada",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Email ou senha incorretos.", message(t, rec))
}

// ── auth ─────────────────────────────────────────────────────────────────────

func TestCustomerRegisterAndMe(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"nome": "Maria Souza", "email": "maria@example.com", "senha": "segredo1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	assert.NotContains(t, rec.Body.String(), "senha_hash")

	rec = app.request(t, http.MethodGet, "/api/auth/me", body.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me models.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "Maria Souza", me.Name)

	// Duplicate email.
	rec = app.request(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"nome": "Outra", "email": "maria@example.com", "senha": "segredo2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "O email fornecido já está em uso.", message(t, rec))
}

func TestMeRequiresToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token de autenticação não fornecido.", message(t, rec))
}

// ── clientes ─────────────────────────────────────────────────────────────────

func TestCustomerOwnershipGates(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.seedAdmin(t, "adm@example.com", "admin123")
	owner, ownerToken := app.seedCustomer(t, "dona@example.com")
	_, otherToken := app.seedCustomer(t, "outra@example.com")

	path := fmt.Sprintf("/api/clientes/%d", owner.ID)

	rec := app.request(t, http.MethodGet, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.request(t, http.MethodGet, path, ownerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(t, http.MethodGet, path, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Listing is admin only.
	rec = app.request(t, http.MethodGet, "/api/clientes", ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.request(t, http.MethodGet, "/api/clientes", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ── categorias ───────────────────────────────────────────────────────────────

func TestCategoryAdminGateAndCRUD(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.seedAdmin(t, "adm@example.com", "admin123")
	_, clientToken := app.seedCustomer(t, "cliente@example.com")

	payload := map[string]string{"nome": "SUV"}

	rec := app.request(t, http.MethodPost, "/api/categorias", "", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.request(t, http.MethodPost, "/api/categorias", clientToken, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Acesso restrito a administradores.", message(t, rec))

	rec = app.request(t, http.MethodPost, "/api/categorias", adminToken, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "SUV", created.Name)

	// Public listing.
	rec = app.request(t, http.MethodGet, "/api/categorias", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Delete in use → 400 with the storefront message.
	veh := &models.Vehicle{Title: "Compass", Price: 150000, CategoryID: created.ID}
	require.NoError(t, app.db.Create(veh).Error)

	rec = app.request(t, http.MethodDelete, fmt.Sprintf("/api/categorias/%d", created.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t,
		"Não é possível excluir a categoria, pois ela está associada a um ou mais veículos.",
		message(t, rec))
}

// ── veiculos ─────────────────────────────────────────────────────────────────

func vehicleForm(t *testing.T, categoryID uint, images ...string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"titulo":        "Fiat Uno 1.0",
		"preco":         "35900",
		"categoriaId":   fmt.Sprintf("%d", categoryID),
		"marca":         "Fiat",
		"modelo":        "Uno",
		"anoFabricacao": "2018",
		"anoModelo":     "2019",
		"quilometragem": "45000",
		"cor":           "prata",
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range images {
		part, err := w.CreateFormFile("imagens", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestVehicleCreateUpload(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.seedAdmin(t, "adm@example.com", "admin123")
	cat := app.seedCategory(t, "Hatch")

	body, contentType := vehicleForm(t, cat.ID, "frente.jpg", "lateral.jpg")
	req := httptest.NewRequest(http.MethodPost, "/api/veiculos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Vehicle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created.ImageNames, 2)
	// randomhex-originalname, upload order preserved.
	assert.Regexp(t, `^[0-9a-f]{20}-frente\.jpg$`, created.ImageNames[0])
	assert.Regexp(t, `^[0-9a-f]{20}-lateral\.jpg$`, created.ImageNames[1])

	// Stored file is served back under /api/files/.
	rec = app.request(t, http.MethodGet, "/api/files/"+created.ImageNames[0], "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fake image bytes", rec.Body.String())
}

func TestVehicleCreateRequiresImage(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.seedAdmin(t, "adm@example.com", "admin123")
	cat := app.seedCategory(t, "Hatch")

	body, contentType := vehicleForm(t, cat.ID) // no files
	req := httptest.NewRequest(http.MethodPost, "/api/veiculos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Pelo menos uma imagem é necessária.", message(t, rec))
}

// ── vendas ───────────────────────────────────────────────────────────────────

func TestSaleStatusValidation(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.seedAdmin(t, "adm@example.com", "admin123")
	cust, _ := app.seedCustomer(t, "compradora@example.com")
	cat := app.seedCategory(t, "Sedan")
	veh := &models.Vehicle{Title: "Virtus", Price: 95000, CategoryID: cat.ID}
	require.NoError(t, app.db.Create(veh).Error)

	rec := app.request(t, http.MethodPost, "/api/vendas", adminToken, map[string]interface{}{
		"precoTotal": 95000,
		"clienteId":  cust.ID,
		"veiculoIds": []uint{veh.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sale models.Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))

	statusPath := fmt.Sprintf("/api/vendas/%d/status", sale.ID)

	rec = app.request(t, http.MethodPatch, statusPath, adminToken, map[string]interface{}{"efetivada": "sim"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "O campo 'efetivada' deve ser um valor booleano.", message(t, rec))

	rec = app.request(t, http.MethodPatch, statusPath, adminToken, map[string]interface{}{"efetivada": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
	assert.True(t, sale.Settled)

	rec = app.request(t, http.MethodPatch, "/api/vendas/999/status", adminToken, map[string]interface{}{"efetivada": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Venda não encontrada.", message(t, rec))
}

// ── contact / purchase ───────────────────────────────────────────────────────

func TestContactQueuesMail(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/api/contact", "", map[string]string{
		"name": "Visitante", "email": "visita@example.com",
		"subject": "Dúvida", "message": "Ainda está disponível?",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Mensagem enviada com sucesso!", message(t, rec))

	rec = app.request(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "Sem Assunto"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Todos os campos são obrigatórios.", message(t, rec))
}

func TestPurchaseRequest(t *testing.T) {
	app := newTestApp(t)
	_, clientToken := app.seedCustomer(t, "interessada@example.com")
	cat := app.seedCategory(t, "SUV")
	veh := &models.Vehicle{Title: "T-Cross", Price: 130000, CategoryID: cat.ID}
	require.NoError(t, app.db.Create(veh).Error)

	rec := app.request(t, http.MethodPost, "/api/purchase/request", "", map[string]interface{}{"vehicleId": veh.ID})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.request(t, http.MethodPost, "/api/purchase/request", clientToken, map[string]interface{}{"vehicleId": veh.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t,
		"Sua solicitação de compra foi enviada com sucesso! Entraremos em contato em breve.",
		message(t, rec))

	rec = app.request(t, http.MethodPost, "/api/purchase/request", clientToken, map[string]interface{}{"vehicleId": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cliente ou veículo não encontrado.", message(t, rec))
}

// ── dashboard ────────────────────────────────────────────────────────────────

func TestDashboardStatsAdminOnly(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.seedAdmin(t, "adm@example.com", "admin123")
	_, clientToken := app.seedCustomer(t, "cliente@example.com")

	rec := app.request(t, http.MethodGet, "/api/dashboard/stats", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.request(t, http.MethodGet, "/api/dashboard/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	for _, key := range []string{"totalVeiculos", "totalClientes", "totalVendas", "faturamentoTotal"} {
		_, ok := stats[key]
		assert.True(t, ok, "expected %s in stats payload", key)
	}
}
