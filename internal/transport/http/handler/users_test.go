package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-signup-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockActivationSvc struct{ mock.Mock }

func (m *mockActivationSvc) Register(ctx context.Context, req domain.CreateUserRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockActivationSvc) Activate(ctx context.Context, req domain.ActivateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserGetter struct{ mock.Mock }

func (m *mockUserGetter) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func postJSON(target string, body interface{}) *http.Request {
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- Register ---

func TestRegister_InvalidBody(t *testing.T) {
	h := NewUserHandler(&mockActivationSvc{}, nil)
	r := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()

	h.Register(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := &mockActivationSvc{}
	h := NewUserHandler(svc, nil)
	rr := httptest.NewRecorder()

	h.Register(rr, postJSON("/v1/users", map[string]string{"name": "Ann"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := &mockActivationSvc{}
	h := NewUserHandler(svc, nil)
	rr := httptest.NewRecorder()

	h.Register(rr, postJSON("/v1/users", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "short",
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := &mockActivationSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return("", domain.ErrDuplicateEmail)
	h := NewUserHandler(svc, nil)
	rr := httptest.NewRecorder()

	h.Register(rr, postJSON("/v1/users", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "secret-password1",
	}))

	assert.Equal(t, http.StatusConflict, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, domain.ErrDuplicateEmail.Error(), env.Message)
}

func TestRegister_InternalFault(t *testing.T) {
	svc := &mockActivationSvc{}
	svc.On("Register", mock.Anything, mock.Anything).Return("", assert.AnError)
	h := NewUserHandler(svc, nil)
	rr := httptest.NewRecorder()

	h.Register(rr, postJSON("/v1/users", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "secret-password1",
	}))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decodeEnvelope(t, rr)
	// Infrastructure detail must not leak to the client.
	assert.NotContains(t, env.Message, assert.AnError.Error())
}

func TestRegister_Success(t *testing.T) {
	svc := &mockActivationSvc{}
	svc.On("Register", mock.Anything, domain.CreateUserRequest{
		Name: "Ann", Email: "ann@x.com", Password: "secret-password1",
	}).Return("tok123", nil)
	h := NewUserHandler(svc, nil)
	rr := httptest.NewRecorder()

	h.Register(rr, postJSON("/v1/users", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "secret-password1",
	}))

	require.Equal(t, http.StatusCreated, rr.Code)
	env := decodeEnvelope(t, rr)
	body, ok := env.Body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "tok123", body["activation_token"])
	assert.Contains(t, env.Message, "ann@x.com")
	svc.AssertExpectations(t)
}

// --- Activate ---

func TestActivate_MissingCode(t *testing.T) {
	svc := &mockActivationSvc{}
	h := NewUserHandler(svc, nil)
	rr := httptest.NewRecorder()

	h.Activate(rr, postJSON("/v1/users/activate", map[string]string{"activation_token": "tok"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything)
}

func TestActivate_NonNumericCode(t *testing.T) {
	svc := &mockActivationSvc{}
	h := NewUserHandler(svc, nil)
	rr := httptest.NewRecorder()

	h.Activate(rr, postJSON("/v1/users/activate", map[string]string{
		"activation_token": "tok", "activation_code": "abcde",
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything)
}

func TestActivate_CodeMismatch(t *testing.T) {
	svc := &mockActivationSvc{}
	svc.On("Activate", mock.Anything, mock.Anything).Return(nil, domain.ErrCodeMismatch)
	h := NewUserHandler(svc, nil)
	rr := httptest.NewRecorder()

	h.Activate(rr, postJSON("/v1/users/activate", map[string]string{
		"activation_token": "tok", "activation_code": "00000",
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	assert.Equal(t, domain.ErrCodeMismatch.Error(), env.Message)
}

func TestActivate_ExpiredToken(t *testing.T) {
	svc := &mockActivationSvc{}
	svc.On("Activate", mock.Anything, mock.Anything).Return(nil, domain.ErrTokenExpired)
	h := NewUserHandler(svc, nil)
	rr := httptest.NewRecorder()

	h.Activate(rr, postJSON("/v1/users/activate", map[string]string{
		"activation_token": "tok", "activation_code": "00000",
	}))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestActivate_Success(t *testing.T) {
	svc := &mockActivationSvc{}
	svc.On("Activate", mock.Anything, domain.ActivateUserRequest{
		ActivationToken: "tok", ActivationCode: "04821",
	}).Return(&domain.User{UserID: "u1", Name: "Ann", Email: "ann@x.com"}, nil)
	h := NewUserHandler(svc, nil)
	rr := httptest.NewRecorder()

	h.Activate(rr, postJSON("/v1/users/activate", map[string]string{
		"activation_token": "tok", "activation_code": "04821",
	}))

	require.Equal(t, http.StatusCreated, rr.Code)
	env := decodeEnvelope(t, rr)
	body, ok := env.Body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Ann", body["name"])
	assert.Equal(t, "ann@x.com", body["email"])
	svc.AssertExpectations(t)
}

// --- Get ---

func TestGetUser_Found(t *testing.T) {
	users := &mockUserGetter{}
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Name: "Ann"}, nil)
	h := NewUserHandler(&mockActivationSvc{}, users)
	rr := httptest.NewRecorder()
	r := withChiID(httptest.NewRequest(http.MethodGet, "/v1/users/u1", nil), "u1")

	h.Get(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	body, ok := env.Body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "u1", body["id"])
}

func TestGetUser_NotFound(t *testing.T) {
	users := &mockUserGetter{}
	users.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)
	h := NewUserHandler(&mockActivationSvc{}, users)
	rr := httptest.NewRecorder()
	r := withChiID(httptest.NewRequest(http.MethodGet, "/v1/users/missing", nil), "missing")

	h.Get(rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
