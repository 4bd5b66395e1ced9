package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resortes-api/internal/application/auth"
	"github.com/jhoicas/resortes-api/internal/application/dto"
	"github.com/jhoicas/resortes-api/internal/application/inventory"
	"github.com/jhoicas/resortes-api/internal/domain/label"
	"github.com/jhoicas/resortes-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/resortes-api/internal/interfaces/http"
)

const testPIN = "2468"

type stubLabels struct {
	pages   int
	payload string
}

func (s *stubLabels) RenderLabels(_ context.Context, sheet label.Sheet) ([]byte, error) {
	s.pages = len(sheet.Pages)
	if len(sheet.Pages) > 0 {
		s.payload = sheet.Pages[0].Payload
	}
	return []byte("%PDF-stub"), nil
}

type stubNotifier struct{}

func (stubNotifier) Notify(context.Context, string, string) (bool, string) { return true, "ok" }

func newAPI(t *testing.T) (*fiber.App, *stubLabels) {
	t.Helper()
	labels := &stubLabels{}
	uc := inventory.NewStockUseCase(memory.NewLedgerRepository(), stubNotifier{}, labels, inventory.Options{}, zerolog.Nop())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		StockUC:   uc,
		Sessions:  inventory.NewSessionRegistry(0),
		AuthUC:    auth.NewAuthUseCase(auth.PINConfig{PIN: testPIN}, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer}),
		JWTSecret: testJWTSecret,
		StoreName: "memory",
	})
	return app, labels
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
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
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/admin/login", "", dto.LoginRequest{PIN: testPIN})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.LoginResponse](t, resp).Token
}

// ─── Flujo completo ───────────────────────────────────────────────────────────

func TestAPI_IngresoEscaneoYConsumo(t *testing.T) {
	app, _ := newAPI(t)
	token := login(t, app)

	resp := call(t, app, http.MethodPost, "/api/admin/receipts", token, dto.ReceiveRequest{PartID: "LSR-1", Quantity: 10})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 10, decode[dto.ReceiveResult](t, resp).QtyAfter)

	resp = call(t, app, http.MethodPost, "/api/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sid := decode[dto.SessionResponse](t, resp).SessionID

	resp = call(t, app, http.MethodPost, "/api/sessions/"+sid+"/scan", "", dto.ScanRequest{Payload: map[string]string{"text": "LSR-1"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	scan := decode[dto.ScanResponse](t, resp)
	assert.True(t, scan.Detected)
	assert.Equal(t, "LSR-1", scan.PartID)

	consume := dto.ConsumeRequest{Initials: "p.v.", OrderRef: "005-26r01", Quantity: 4}
	resp = call(t, app, http.MethodPost, "/api/sessions/"+sid+"/consume", "", consume)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	res := decode[dto.ConsumeResult](t, resp)
	assert.Equal(t, 6, res.QtyAfter)
	assert.Equal(t, "005-26R01", res.OrderRef)

	// Misma lectura física: no hay nada armado para consumir.
	resp = call(t, app, http.MethodPost, "/api/sessions/"+sid+"/consume", "", consume)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/consumptions", "", dto.StatelessConsumeRequest{
		ScanPayload:    "LSR-1",
		ConsumeRequest: dto.ConsumeRequest{Initials: "PV", OrderRef: "005-26R01", Quantity: 7},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)

	resp = call(t, app, http.MethodGet, "/api/admin/balances/export", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	csv, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "part_id,qty_on_hand\nLSR-1,6\n", string(csv))

	resp = call(t, app, http.MethodGet, "/api/admin/movements?part_id=LSR-1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	movs := decode[struct {
		Total int `json:"total"`
	}](t, resp)
	assert.Equal(t, 2, movs.Total)
}

func TestAPI_ValidacionDevuelveTodasLasReglas(t *testing.T) {
	app, _ := newAPI(t)

	resp := call(t, app, http.MethodPost, "/api/consumptions", "", dto.StatelessConsumeRequest{})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Len(t, body.Details, 4)
}

func TestAPI_SesionInexistente(t *testing.T) {
	app, _ := newAPI(t)

	resp := call(t, app, http.MethodPost, "/api/sessions/no-existe/scan", "", dto.ScanRequest{Payload: "X"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/sessions/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ─── Administración ───────────────────────────────────────────────────────────

func TestAPI_AdminRequiereToken(t *testing.T) {
	app, _ := newAPI(t)

	resp := call(t, app, http.MethodGet, "/api/admin/balances", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/admin/login", "", dto.LoginRequest{PIN: "0000"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_EtiquetasPDF(t *testing.T) {
	app, labels := newAPI(t)
	token := login(t, app)

	resp := call(t, app, http.MethodGet, "/api/admin/labels/LSR-12345?copies=3", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "etiquetas_LSR-12345.pdf")
	assert.Equal(t, 3, labels.pages)

	resp = call(t, app, http.MethodGet, "/api/admin/labels/LSR-12345?copies=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_EtiquetasDecodificanElNumeroDeResorte(t *testing.T) {
	app, labels := newAPI(t)
	token := login(t, app)

	resp := call(t, app, http.MethodGet, "/api/admin/labels/LSR%20A%2312?copies=2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "LSR A#12", labels.payload)
	assert.Equal(t, 2, labels.pages)
}

func TestAPI_Reconcile(t *testing.T) {
	app, _ := newAPI(t)
	token := login(t, app)

	resp := call(t, app, http.MethodPost, "/api/admin/reconcile?apply=true", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[dto.ReconcileResult](t, resp)
	assert.True(t, res.Applied)
	assert.Empty(t, res.Drift)
}

func TestAPI_Health(t *testing.T) {
	app, _ := newAPI(t)

	resp := call(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "memory", decode[dto.HealthResponse](t, resp).Store)
}
