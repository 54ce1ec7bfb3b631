package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"gradebook/backend/app/apperr"
	jwtutil "gradebook/backend/app/jwt"
	"gradebook/backend/app/middleware"
	"gradebook/backend/app/models"
	"gradebook/backend/app/services"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGate returns canned results and records what it was asked.
type stubGate struct {
	err       error
	gotToken  string
	gotOwner  string
	principal services.Principal
}

func (g *stubGate) AuthorizeInstructor(_ context.Context, token string) (services.Principal, error) {
	g.gotToken = token
	return g.principal, g.err
}

func (g *stubGate) AuthorizeStudent(_ context.Context, token, owner string) (services.Principal, error) {
	g.gotToken, g.gotOwner = token, owner
	return g.principal, g.err
}

func serve(h http.Handler, authz string, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func TestRequireInstructor(t *testing.T) {
	var seen services.Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.GetPrincipal(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("missing header", func(t *testing.T) {
		gate := &stubGate{}
		rec := serve((&middleware.Auth{Gate: gate}).RequireInstructor(inner), "", "/")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "Could not validate credentials", detail(t, rec))
		assert.Empty(t, gate.gotToken)
	})

	t.Run("non bearer scheme", func(t *testing.T) {
		rec := serve((&middleware.Auth{Gate: &stubGate{}}).RequireInstructor(inner), "Basic abc", "/")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		rec := serve((&middleware.Auth{Gate: &stubGate{err: apperr.TokenExpired(nil)}}).RequireInstructor(inner), "Bearer tok", "/")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Token has expired", detail(t, rec))
	})

	t.Run("forbidden", func(t *testing.T) {
		rec := serve((&middleware.Auth{Gate: &stubGate{err: apperr.Forbidden("Instructor access required")}}).RequireInstructor(inner), "Bearer tok", "/")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("admitted", func(t *testing.T) {
		p := services.Principal{Identity: jwtutil.Identity{Username: "turing", Role: models.RoleInstructor}, AccountID: 7}
		gate := &stubGate{principal: p}
		rec := serve((&middleware.Auth{Gate: gate}).RequireInstructor(inner), "bearer  tok ", "/")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "tok", gate.gotToken)
		assert.Equal(t, p, seen)
	})
}

func TestRequireStudentPassesOwner(t *testing.T) {
	gate := &stubGate{err: apperr.Forbidden("You are not authorized to access this student's grade")}
	mw := (&middleware.Auth{Gate: gate}).RequireStudent(func(r *http.Request) string { return r.URL.Query().Get("student_name") })
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { t.Fatal("inner handler must not run") })

	rec := serve(mw(inner), "Bearer tok", "/my-grades?student_name=grace")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "grace", gate.gotOwner)
	assert.Equal(t, "You are not authorized to access this student's grade", detail(t, rec))
}

func TestLoggingAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	h := middleware.Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := serve(h, "", "/brew")
	id := rec.Header().Get(middleware.RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	assert.Equal(t, id, entry["request_id"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.Equal(t, "/brew", entry["path"])

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		in := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, in)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, in, rec.Header().Get(middleware.RequestIDHeader))
	})
}

func TestCORS(t *testing.T) {
	h := middleware.CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/students", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/students", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
