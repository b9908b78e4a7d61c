package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/l10n-ch-billing/internal/application/dto"
	"github.com/jhoicas/l10n-ch-billing/internal/domain/entity"
	apphttp "github.com/jhoicas/l10n-ch-billing/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/l10n-ch-billing/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "l10n-ch-billing-test"
)

// tokenForRole header Authorization de una sesión válida con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, time.Hour, pkgjwt.Session{
		UserID: testUserID, CompanyID: testCompanyID, Role: role,
	})
	require.NoError(t, err)
	return "Bearer " + tok
}

// forgedToken firma claims que el emisor de la API nunca produciría.
func forgedToken(t *testing.T, secret string, claims jwtlib.MapClaims) string {
	t.Helper()
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func callWithHeader(t *testing.T, app *fiber.App, method, path, authHeader, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Quién puede hacer qué sobre pagos, exportación y correo.
func TestRutasProtegidas_PorRol(t *testing.T) {
	app := newTestRouter(allModules())
	const (
		preview = `{"invoice_ids":["i-1"],"journal_id":"j-1"}`
		export  = `{"payment_ids":["p-1"]}`
		mail    = `{"template_id":"t-1","res_ids":["i-1"]}`
	)
	tests := []struct {
		method, path, body string
		role               string
		want               int
	}{
		{http.MethodGet, "/api/payments", "", entity.RoleViewer, http.StatusOK},
		{http.MethodPost, "/api/payments/preview", preview, entity.RoleViewer, http.StatusOK},
		{http.MethodPost, "/api/payments", preview, entity.RoleViewer, http.StatusForbidden},
		{http.MethodPost, "/api/payments", preview, entity.RoleAccountant, http.StatusCreated},
		{http.MethodPost, "/api/payments", preview, entity.RoleAdmin, http.StatusCreated},
		{http.MethodPost, "/api/payments/export", export, entity.RoleViewer, http.StatusForbidden},
		{http.MethodPost, "/api/payments/export", export, entity.RoleAccountant, http.StatusOK},
		{http.MethodPost, "/api/payments/export", export, entity.RoleAdmin, http.StatusOK},
		{http.MethodPost, "/api/mail/generate", mail, entity.RoleViewer, http.StatusOK},
		{http.MethodPost, "/api/mail/send", mail, entity.RoleViewer, http.StatusForbidden},
		{http.MethodPost, "/api/mail/send", mail, entity.RoleAccountant, http.StatusBadGateway}, // envío parcial del fake
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" "+tt.role, func(t *testing.T) {
			resp := call(t, app, tt.method, tt.path, tt.role, tt.body)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)
			}
		})
	}
}

func TestRutasProtegidas_SinToken(t *testing.T) {
	app := newTestRouter(allModules())
	for _, path := range []string{"/api/payments/preview", "/api/payments", "/api/payments/export", "/api/mail/send"} {
		resp := call(t, app, http.MethodPost, path, "", `{}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, "MISSING_TOKEN", decode[dto.ErrorResponse](t, resp).Code, path)
	}
}

// Tokens que no deben llegar a exportar pagos.
func TestExportar_TokenRechazado(t *testing.T) {
	app := newTestRouter(allModules())
	exp := time.Now().Add(time.Hour).Unix()

	expired, err := pkgjwt.Generate(testJWTSecret, testIssuer, -time.Minute, pkgjwt.Session{
		UserID: testUserID, CompanyID: testCompanyID, Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"rol desconocido", forgedToken(t, testJWTSecret, jwtlib.MapClaims{
			"sub": testUserID, "company_id": testCompanyID, "role": "bodeguero", "exp": exp,
		})},
		{"sin rol", forgedToken(t, testJWTSecret, jwtlib.MapClaims{
			"sub": testUserID, "company_id": testCompanyID, "exp": exp,
		})},
		{"sin empresa", forgedToken(t, testJWTSecret, jwtlib.MapClaims{
			"sub": testUserID, "role": "admin", "exp": exp,
		})},
		{"firmado con otro secret", forgedToken(t, "otro-secret", jwtlib.MapClaims{
			"sub": testUserID, "company_id": testCompanyID, "role": "admin", "exp": exp,
		})},
		{"expirado", "Bearer " + expired},
		{"esquema Basic", "Basic dXNlcjpwYXNz"},
		{"malformado", "Bearer token.invalido.aqui"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callWithHeader(t, app, http.MethodPost, "/api/payments/export", tt.header, `{"payment_ids":["p-1"]}`)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "INVALID_TOKEN", decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

// La empresa de los pagos registrados sale del token.
func TestRegistrarPagos_EmpresaDelToken(t *testing.T) {
	app := newTestRouter(allModules())

	resp := call(t, app, http.MethodPost, "/api/payments", entity.RoleAccountant, `{"invoice_ids":["i-1"],"journal_id":"j-1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[[]dto.PaymentResponse](t, resp)
	require.Len(t, out, 1)
	assert.Equal(t, testCompanyID, out[0].CompanyID)
}

// RequireRole montado sin AuthMiddleware no deja pasar a nadie.
func TestRequireRole_SinSesion(t *testing.T) {
	app := fiber.New()
	app.Post("/export", apphttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp := callWithHeader(t, app, http.MethodPost, "/export", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", decode[dto.ErrorResponse](t, resp).Code)
}
