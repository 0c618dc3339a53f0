package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jobportal/internal/auth"
	"jobportal/internal/cache"
	"jobportal/internal/config"
	apperrors "jobportal/internal/errors"
	"jobportal/internal/handler"
	"jobportal/internal/logging"
	"jobportal/internal/media"
	"jobportal/internal/metrics"
	"jobportal/internal/model"
	"jobportal/internal/router"
	"jobportal/internal/service"
)

const testSecret = "handler-test-secret"

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.SafeUser, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SafeUser), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password, role string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) {
	m.Called(ctx, token)
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.SafeUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SafeUser), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in service.ProfileUpdate, file *media.File) (*model.SafeUser, error) {
	args := m.Called(ctx, userID, in, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SafeUser), args.Error(1)
}

// MockCompanyService is a mock implementation of service.CompanyService.
type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) Register(ctx context.Context, userID uuid.UUID, name string) (*model.Company, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyService) List(ctx context.Context, userID uuid.UUID) ([]model.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Company), args.Error(1)
}

func (m *MockCompanyService) Get(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyService) Update(ctx context.Context, userID, id uuid.UUID, in service.CompanyUpdate, logo *media.File) (*model.Company, error) {
	args := m.Called(ctx, userID, id, in, logo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

// MockJobService is a mock implementation of service.JobService.
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) Post(ctx context.Context, userID uuid.UUID, in service.JobInput) (*model.Job, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Job), args.Error(1)
}

func (m *MockJobService) List(ctx context.Context, keyword string) ([]model.Job, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Job), args.Error(1)
}

func (m *MockJobService) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Job), args.Error(1)
}

func (m *MockJobService) ListByCreator(ctx context.Context, userID uuid.UUID) ([]model.Job, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Job), args.Error(1)
}

type testServer struct {
	e         *echo.Echo
	auth      *MockAuthService
	companies *MockCompanyService
	jobs      *MockJobService
	jwt       *auth.JWTService
	store     *auth.TokenStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	cfg := &config.Config{
		CORSOrigins:    []string{"http://localhost:5173"},
		CookieSecure:   true,
		MaxUploadBytes: 1024,
	}
	ts := &testServer{
		e:         echo.New(),
		auth:      new(MockAuthService),
		companies: new(MockCompanyService),
		jobs:      new(MockJobService),
		jwt:       auth.NewJWTService(testSecret),
		store:     auth.NewTokenStore(rc),
	}
	router.Register(ts.e, router.Dependencies{
		Config:     cfg,
		Logger:     logging.Discard(),
		JWT:        ts.jwt,
		TokenStore: ts.store,
		Metrics:    metrics.New(),
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(ts.auth, cfg.CookieSecure, cfg.MaxUploadBytes),
		User:    handler.NewUserHandler(ts.auth, cfg.MaxUploadBytes),
		Company: handler.NewCompanyHandler(ts.companies, cfg.MaxUploadBytes),
		Job:     handler.NewJobHandler(ts.jobs),
	})
	return ts
}

func (ts *testServer) sessionCookie(t *testing.T, userID uuid.UUID, role model.Role) (*http.Cookie, auth.Session) {
	t.Helper()
	session, err := ts.jwt.Issue(userID, string(role))
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: session.Token}, session
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister_JSON(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("Register", mock.Anything, service.RegisterInput{
		Fullname: "Ada", Email: "ada@x.com", PhoneNumber: "555-0100", Password: "pw123", Role: "seeker",
	}).Return(&model.SafeUser{Email: "ada@x.com"}, nil)

	rec := ts.do(jsonRequest(http.MethodPost, "/api/v1/user/register",
		`{"fullname":"Ada","email":"ada@x.com","phoneNumber":"555-0100","password":"pw123","role":"seeker"}`))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Account created successfully.", body["message"])
	ts.auth.AssertExpectations(t)
}

func TestRegister_MultipartWithPhoto(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"fullname": "Ada", "email": "ada@x.com", "phoneNumber": "555-0100", "password": "pw123", "role": "seeker",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, w.Close())

	ts.auth.On("Register", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
		return in.Email == "ada@x.com" && in.File != nil &&
			in.File.Filename == "me.png" && string(in.File.Data) == "png-bytes"
	})).Return(&model.SafeUser{Email: "ada@x.com"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/register", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := ts.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	ts.auth.AssertExpectations(t)
}

func TestRegister_FileTooLarge(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"fullname": "Ada", "email": "ada@x.com", "phoneNumber": "555-0100", "password": "pw123", "role": "seeker",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("file", "big.png")
	require.NoError(t, err)
	_, _ = part.Write(bytes.Repeat([]byte("x"), 2048))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/register", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := ts.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ts.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_MissingField(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(jsonRequest(http.MethodPost, "/api/v1/user/register",
		`{"fullname":"Ada","email":"ada@x.com","password":"pw123","role":"seeker"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Please fill all required fields.", body["message"])
	assert.Equal(t, apperrors.CodeValidation, body["code"])
	ts.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_Conflict(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.ErrUserExists)

	rec := ts.do(jsonRequest(http.MethodPost, "/api/v1/user/register",
		`{"fullname":"Ada","email":"ada@x.com","phoneNumber":"555-0100","password":"pw123","role":"seeker"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists with this email.", decode(t, rec)["message"])
}

func TestRegister_InternalErrorIsGeneric(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("Register", mock.Anything, mock.Anything).
		Return(nil, apperrors.Internal(errors.New("dial tcp 10.0.0.1:3306: refused"), "create user"))

	rec := ts.do(jsonRequest(http.MethodPost, "/api/v1/user/register",
		`{"fullname":"Ada","email":"ada@x.com","phoneNumber":"555-0100","password":"pw123","role":"seeker"}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["message"])
	assert.NotContains(t, rec.Body.String(), "3306")
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	session, err := ts.jwt.Issue(userID, "seeker")
	require.NoError(t, err)

	ts.auth.On("Login", mock.Anything, "ada@x.com", "pw123", "seeker").Return(&service.LoginResult{
		Session: session,
		User:    &model.SafeUser{ID: userID, Fullname: "Ada", Email: "ada@x.com", Role: model.RoleSeeker},
	}, nil)

	rec := ts.do(jsonRequest(http.MethodPost, "/api/v1/user/login",
		`{"email":"ada@x.com","password":"pw123","role":"seeker"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Welcome back Ada!", body["message"])
	assert.Equal(t, "ada@x.com", body["user"].(map[string]any)["email"])
	assert.NotContains(t, rec.Body.String(), session.Token)

	cookie := findCookie(rec, auth.CookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, session.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 86400, cookie.MaxAge)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "bad credentials", err: apperrors.ErrInvalidCredentials, message: "Incorrect email or password."},
		{name: "role mismatch", err: apperrors.ErrRoleMismatch, message: "Account doesn't exist with the selected role."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.auth.On("Login", mock.Anything, "ada@x.com", "pw123", "seeker").Return(nil, tt.err)

			rec := ts.do(jsonRequest(http.MethodPost, "/api/v1/user/login",
				`{"email":"ada@x.com","password":"pw123","role":"seeker"}`))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["message"])
			assert.Nil(t, findCookie(rec, auth.CookieName))
		})
	}
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.On("Logout", mock.Anything, "").Return()

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/user/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully.", decode(t, rec)["message"])
	cookie := findCookie(rec, auth.CookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestLogout_ForwardsCookieToken(t *testing.T) {
	ts := newTestServer(t)
	cookie, _ := ts.sessionCookie(t, uuid.New(), model.RoleSeeker)
	ts.auth.On("Logout", mock.Anything, cookie.Value).Return()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/logout", nil)
	req.AddCookie(cookie)
	rec := ts.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	ts.auth.AssertExpectations(t)
}

func TestProfile_RequiresSession(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/user/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, apperrors.CodeAuthentication, body["code"])
}

func TestProfile_RevokedSessionRejected(t *testing.T) {
	ts := newTestServer(t)
	cookie, session := ts.sessionCookie(t, uuid.New(), model.RoleSeeker)
	require.NoError(t, ts.store.RevokeSession(context.Background(), session.ID, time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/profile", nil)
	req.AddCookie(cookie)
	rec := ts.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	ts.auth.AssertNotCalled(t, "GetProfile", mock.Anything, mock.Anything)
}

func TestUpdateProfile_UsesSessionUser(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	cookie, _ := ts.sessionCookie(t, userID, model.RoleSeeker)

	ts.auth.On("UpdateProfile", mock.Anything, userID, service.ProfileUpdate{Bio: "hello", Skills: "go,rust"}, (*media.File)(nil)).
		Return(&model.SafeUser{ID: userID, Profile: model.Profile{Bio: "hello", Skills: model.StringList{"go", "rust"}}}, nil)

	req := jsonRequest(http.MethodPut, "/api/v1/user/profile/update", `{"bio":"hello","skills":"go,rust"}`)
	req.AddCookie(cookie)
	rec := ts.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Profile updated successfully", body["message"])
	assert.NotContains(t, rec.Body.String(), "password")
	ts.auth.AssertExpectations(t)
}

func TestUpdateProfile_NotFound(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	cookie, _ := ts.sessionCookie(t, userID, model.RoleSeeker)
	ts.auth.On("UpdateProfile", mock.Anything, userID, mock.Anything, mock.Anything).Return(nil, apperrors.ErrUserNotFound)

	req := jsonRequest(http.MethodPut, "/api/v1/user/profile/update", `{"bio":"hello"}`)
	req.AddCookie(cookie)
	rec := ts.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompanyRegister_RequiresRecruiter(t *testing.T) {
	ts := newTestServer(t)
	cookie, _ := ts.sessionCookie(t, uuid.New(), model.RoleSeeker)

	req := jsonRequest(http.MethodPost, "/api/v1/company/register", `{"companyName":"Acme"}`)
	req.AddCookie(cookie)
	rec := ts.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	ts.companies.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompanyRegister(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	cookie, _ := ts.sessionCookie(t, userID, model.RoleRecruiter)
	ts.companies.On("Register", mock.Anything, userID, "Acme").Return(&model.Company{Name: "Acme", UserID: userID}, nil)

	req := jsonRequest(http.MethodPost, "/api/v1/company/register", `{"companyName":"Acme"}`)
	req.AddCookie(cookie)
	rec := ts.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Acme", decode(t, rec)["company"].(map[string]any)["name"])
}

func TestCompanyGet_InvalidID(t *testing.T) {
	ts := newTestServer(t)
	cookie, _ := ts.sessionCookie(t, uuid.New(), model.RoleSeeker)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/company/get/not-a-uuid", nil)
	req.AddCookie(cookie)
	rec := ts.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid company ID", decode(t, rec)["message"])
}

func TestCompanyUpdate_NotFound(t *testing.T) {
	ts := newTestServer(t)
	id := uuid.New()
	userID := uuid.New()
	cookie, _ := ts.sessionCookie(t, userID, model.RoleRecruiter)
	ts.companies.On("Update", mock.Anything, userID, id, service.CompanyUpdate{Location: "Berlin"}, (*media.File)(nil)).
		Return(nil, apperrors.ErrCompanyNotFound)

	req := jsonRequest(http.MethodPut, "/api/v1/company/update/"+id.String(), `{"location":"Berlin"}`)
	req.AddCookie(cookie)
	rec := ts.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Company not found", decode(t, rec)["message"])
}

func TestCompanyUpdate_NotOwner(t *testing.T) {
	ts := newTestServer(t)
	id := uuid.New()
	userID := uuid.New()
	cookie, _ := ts.sessionCookie(t, userID, model.RoleRecruiter)
	ts.companies.On("Update", mock.Anything, userID, id, service.CompanyUpdate{Name: "Mine now"}, (*media.File)(nil)).
		Return(nil, apperrors.ErrNotCompanyOwner)

	req := jsonRequest(http.MethodPut, "/api/v1/company/update/"+id.String(), `{"name":"Mine now"}`)
	req.AddCookie(cookie)
	rec := ts.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only manage your own companies.", decode(t, rec)["message"])
}

func TestJobPost_AcceptsNumbersAndStrings(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	companyID := uuid.New()
	cookie, _ := ts.sessionCookie(t, userID, model.RoleRecruiter)

	ts.jobs.On("Post", mock.Anything, userID, mock.MatchedBy(func(in service.JobInput) bool {
		return in.Salary == "120000" && in.Experience == "3" && in.Position == "2" && in.CompanyID == companyID.String()
	})).Return(&model.Job{Title: "Backend Engineer"}, nil)

	req := jsonRequest(http.MethodPost, "/api/v1/job/post", `{"title":"Backend Engineer","description":"APIs",
		"requirements":"Go,SQL","salary":120000,"location":"Remote","jobType":"Full-time",
		"experience":"3","position":2,"companyId":"`+companyID.String()+`"}`)
	req.AddCookie(cookie)
	rec := ts.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "New job created successfully.", decode(t, rec)["message"])
	ts.jobs.AssertExpectations(t)
}

func TestJobList_Keyword(t *testing.T) {
	ts := newTestServer(t)
	cookie, _ := ts.sessionCookie(t, uuid.New(), model.RoleSeeker)
	ts.jobs.On("List", mock.Anything, "golang").Return([]model.Job{{Title: "Golang dev"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/job/get?keyword=golang", nil)
	req.AddCookie(cookie)
	rec := ts.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["jobs"], 1)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}
