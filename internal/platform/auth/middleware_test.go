package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, key []byte, claims Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	return raw
}

func protectedEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	g := e.Group("/api", mw...)
	g.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	return e
}

func doGet(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware_MissingToken(t *testing.T) {
	e := protectedEcho(JWTMiddleware(Config{SigningKey: testKey}))

	if rec := doGet(e, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", rec.Code)
	}
	if rec := doGet(e, "Basic abc"); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a non-bearer scheme, got %d", rec.Code)
	}
}

func TestJWTMiddleware_InvalidToken(t *testing.T) {
	e := protectedEcho(JWTMiddleware(Config{SigningKey: testKey}))

	if rec := doGet(e, "Bearer not-a-jwt"); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for garbage, got %d", rec.Code)
	}

	wrongKey := signToken(t, []byte("other-key"), Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	if rec := doGet(e, "Bearer "+wrongKey); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a wrong signature, got %d", rec.Code)
	}

	expired := signToken(t, testKey, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	if rec := doGet(e, "Bearer "+expired); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for an expired token, got %d", rec.Code)
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	g := e.Group("/api", JWTMiddleware(Config{SigningKey: testKey}))
	g.GET("/ping", func(c echo.Context) error {
		ctx := c.Request().Context()
		if got, _ := ctx.Value(UserIDKey).(string); got != "user-1" {
			t.Errorf("expected subject on context, got %q", got)
		}
		if roles := RolesFromContext(ctx); len(roles) != 1 || roles[0] != "hr" {
			t.Errorf("expected roles on context, got %v", roles)
		}
		return c.NoContent(http.StatusOK)
	})

	token := signToken(t, testKey, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{"hr"},
	})
	if rec := doGet(e, "Bearer "+token); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	token := func(roles ...string) string {
		return "Bearer " + signToken(t, testKey, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
			Roles:            roles,
		})
	}
	e := protectedEcho(JWTMiddleware(Config{SigningKey: testKey}), RequireRole("hr"))

	if rec := doGet(e, token("hr")); rec.Code != http.StatusOK {
		t.Errorf("hr should pass, got %d", rec.Code)
	}
	if rec := doGet(e, token("admin")); rec.Code != http.StatusOK {
		t.Errorf("admin always passes, got %d", rec.Code)
	}
	if rec := doGet(e, token("viewer")); rec.Code != http.StatusForbidden {
		t.Errorf("viewer should be forbidden, got %d", rec.Code)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()
	g := e.Group("/api", DevAuthMiddleware(), RequireRole("hr"))
	g.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if rec := doGet(e, ""); rec.Code != http.StatusOK {
		t.Errorf("dev bypass should grant admin, got %d", rec.Code)
	}
}
