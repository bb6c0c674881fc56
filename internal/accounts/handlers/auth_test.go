package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/shindora/internal/accounts/store"
	"github.com/example/shindora/internal/platform/auth"
)

var testTokens = auth.Tokens{Secret: []byte("test-secret"), TTL: time.Hour}

func setupReq(method, url string, body io.Reader, userID string) *http.Request {
	req := httptest.NewRequest(method, url, body)
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	return req
}

func register(t *testing.T, us store.Store, username, password string) tokenResponse {
	t.Helper()
	body := strings.NewReader(`{"username":"` + username + `","password":"` + password + `","email":"` + username + `@example.com"}`)
	req := setupReq(http.MethodPost, "/api/auth/register", body, "")
	rr := httptest.NewRecorder()
	Register(us, testTokens, nil).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp tokenResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	us := store.NewInMemoryStore()
	resp := register(t, us, "frank", "hunter22")

	if resp.AccessToken == "" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected token response %+v", resp)
	}
	if resp.User.Username != "frank" || resp.User.Role != "user" {
		t.Fatalf("unexpected user %+v", resp.User)
	}
	if resp.User.AvatarURL == "" {
		t.Fatal("expected a generated avatar url")
	}
	claims, err := testTokens.Parse(resp.AccessToken)
	if err != nil || claims.Subject != resp.User.ID {
		t.Fatalf("token does not identify the user: %v %+v", err, claims)
	}

	body := strings.NewReader(`{"username":"frank","password":"hunter22"}`)
	rr := httptest.NewRecorder()
	Login(us, testTokens).ServeHTTP(rr, setupReq(http.MethodPost, "/api/auth/login", body, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	us := store.NewInMemoryStore()
	register(t, us, "frank", "hunter22")

	for name, body := range map[string]string{
		"wrong password": `{"username":"frank","password":"wrong!"}`,
		"unknown user":   `{"username":"nobody","password":"hunter22"}`,
	} {
		rr := httptest.NewRecorder()
		Login(us, testTokens).ServeHTTP(rr, setupReq(http.MethodPost, "/api/auth/login", strings.NewReader(body), ""))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rr.Code)
		}
	}
}

func TestRegister_Validation(t *testing.T) {
	us := store.NewInMemoryStore()
	for name, body := range map[string]string{
		"short username": `{"username":"ab","password":"hunter22"}`,
		"short password": `{"username":"frank","password":"abc"}`,
	} {
		rr := httptest.NewRecorder()
		Register(us, testTokens, nil).ServeHTTP(rr, setupReq(http.MethodPost, "/api/auth/register", strings.NewReader(body), ""))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rr.Code)
		}
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	us := store.NewInMemoryStore()
	register(t, us, "frank", "hunter22")

	body := strings.NewReader(`{"username":"frank","password":"hunter33"}`)
	rr := httptest.NewRecorder()
	Register(us, testTokens, nil).ServeHTTP(rr, setupReq(http.MethodPost, "/api/auth/register", body, ""))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestMeAndProfileUpdate(t *testing.T) {
	us := store.NewInMemoryStore()
	resp := register(t, us, "frank", "hunter22")

	rr := httptest.NewRecorder()
	Me(us).ServeHTTP(rr, setupReq(http.MethodGet, "/api/auth/me", nil, resp.User.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rr.Code)
	}
	var me store.User
	if err := json.NewDecoder(rr.Body).Decode(&me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.ID != resp.User.ID {
		t.Fatalf("me returned %+v", me)
	}

	body := strings.NewReader(`{"username":"franklin","avatar_url":"https://example.com/f.png"}`)
	rr = httptest.NewRecorder()
	UpdateProfile(us).ServeHTTP(rr, setupReq(http.MethodPut, "/api/auth/profile", body, resp.User.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("profile update: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var updated store.User
	if err := json.NewDecoder(rr.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Username != "franklin" || updated.AvatarURL != "https://example.com/f.png" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestMe_Unauthenticated(t *testing.T) {
	us := store.NewInMemoryStore()
	rr := httptest.NewRecorder()
	Me(us).ServeHTTP(rr, setupReq(http.MethodGet, "/api/auth/me", nil, ""))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	us := store.NewInMemoryStore()
	register(t, us, "frank", "hunter22")

	// capture the issued token off the log stream
	core, observed := newObservedLogger()
	body := strings.NewReader(`{"email":"frank@example.com"}`)
	rr := httptest.NewRecorder()
	ForgotPassword(us, core).ServeHTTP(rr, setupReq(http.MethodPost, "/api/auth/forgot-password", body, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("forgot: expected 200, got %d", rr.Code)
	}
	token := observed()
	if token == "" {
		t.Fatal("expected a reset token to be issued")
	}

	body = strings.NewReader(`{"token":"` + token + `","new_password":"newpass99"}`)
	rr = httptest.NewRecorder()
	ResetPassword(us).ServeHTTP(rr, setupReq(http.MethodPost, "/api/auth/reset-password", body, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// old password is rejected, new one works
	rr = httptest.NewRecorder()
	Login(us, testTokens).ServeHTTP(rr, setupReq(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"frank","password":"hunter22"}`), ""))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("old password: expected 401, got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	Login(us, testTokens).ServeHTTP(rr, setupReq(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"frank","password":"newpass99"}`), ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("new password: expected 200, got %d", rr.Code)
	}

	// the token is single-use
	body = strings.NewReader(`{"token":"` + token + `","new_password":"another1"}`)
	rr = httptest.NewRecorder()
	ResetPassword(us).ServeHTTP(rr, setupReq(http.MethodPost, "/api/auth/reset-password", body, ""))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("token reuse: expected 401, got %d", rr.Code)
	}
}

func TestForgotPassword_UnknownEmailSameResponse(t *testing.T) {
	us := store.NewInMemoryStore()
	log, _ := newObservedLogger()
	body := strings.NewReader(`{"email":"nobody@example.com"}`)
	rr := httptest.NewRecorder()
	ForgotPassword(us, log).ServeHTTP(rr, setupReq(http.MethodPost, "/api/auth/forgot-password", body, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown email, got %d", rr.Code)
	}
}

// newObservedLogger returns a logger whose logged reset_token field can be
// read back.
func newObservedLogger() (*zap.Logger, func() string) {
	core, logs := observer.New(zapcore.InfoLevel)
	return zap.New(core), func() string {
		for _, entry := range logs.All() {
			for _, field := range entry.Context {
				if field.Key == "reset_token" {
					return field.String
				}
			}
		}
		return ""
	}
}
