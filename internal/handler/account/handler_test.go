package account

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/orgchat/backend/internal/auth"
	"github.com/zhouzirui/orgchat/backend/internal/service/backend"
)

// fakeBackend accepts jdoe/secret1 (employee) and ghost/secret1 (inactive).
func fakeBackend(t *testing.T) *backend.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("password") != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-` + r.PostForm.Get("username") + `","token_type":"bearer"}`))
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		switch auth.TokenFromRequest(r) {
		case "tok-jdoe":
			_, _ = w.Write([]byte(`{"id":"1","username":"jdoe","role":"employee","is_active":true}`))
		case "tok-ghost":
			_, _ = w.Write([]byte(`{"id":"2","username":"ghost","role":"employee","is_active":false}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return backend.New(srv.URL)
}

func setupRouter(t *testing.T) http.Handler {
	client := fakeBackend(t)
	resolver := auth.NewResolver(client, 8, time.Minute, nil)

	r := chi.NewRouter()
	r.Use(resolver.Authenticate)
	New(client, resolver, false, nil).RegisterRoutes(r)
	return r
}

func TestLoginJSONSetsCookie(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"jdoe","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out LoginResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "tok-jdoe", out.AccessToken)
	assert.Equal(t, "jdoe", out.User.Username)
	assert.Equal(t, "/chat", out.Home)

	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Equal(t, "tok-jdoe", cookies[0].Value)
}

func TestLoginForm(t *testing.T) {
	r := setupRouter(t)

	form := url.Values{"username": {"jdoe"}, "password": {"secret1"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestLoginFailures(t *testing.T) {
	r := setupRouter(t)

	cases := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{"wrong password", `{"username":"jdoe","password":"nope"}`, http.StatusUnauthorized, "Incorrect username or password"},
		{"inactive", `{"username":"ghost","password":"secret1"}`, http.StatusForbidden, auth.ErrInactive.Error()},
		{"missing fields", `{"username":"jdoe"}`, http.StatusBadRequest, "username and password are required"},
		{"bad json", `{`, http.StatusBadRequest, "invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			assert.Equal(t, tc.status, resp.Code)
			assert.Contains(t, resp.Body.String(), tc.errMsg)
			assert.Empty(t, resp.Result().Cookies())
		})
	}
}

func TestMeAndNavigation(t *testing.T) {
	r := setupRouter(t)

	for _, path := range []string{"/auth/me", "/navigation"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, resp.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/navigation", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "tok-jdoe"})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var pages []auth.Page
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &pages))
	require.Len(t, pages, 1)
	assert.Equal(t, auth.PageChat, pages[0].Name)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer tok-jdoe")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"username":"jdoe"`)
}

func TestLogoutClearsCookie(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "tok-jdoe"})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
