package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ridepulse/internal/dashboard"
	apierrors "ridepulse/internal/errors"
	"ridepulse/internal/session"
	"ridepulse/internal/shared/testutil"
	"ridepulse/pkg/contracts/domain"
)

// MockSessionService is a mock implementation of SessionServiceInterface
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) CreateSession(ctx context.Context) (session.ViewState, error) {
	args := m.Called()
	return args.Get(0).(session.ViewState), args.Error(1)
}

func (m *MockSessionService) Session(ctx context.Context, id string) (session.ViewState, error) {
	args := m.Called(id)
	return args.Get(0).(session.ViewState), args.Error(1)
}

func (m *MockSessionService) EndSession(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

func (m *MockSessionService) SelectView(ctx context.Context, id, name string) (session.ViewState, error) {
	args := m.Called(id, name)
	return args.Get(0).(session.ViewState), args.Error(1)
}

func (m *MockSessionService) SetFilters(ctx context.Context, id string, view domain.View, f domain.Filters) (session.ViewState, error) {
	args := m.Called(id, view, f)
	return args.Get(0).(session.ViewState), args.Error(1)
}

func (m *MockSessionService) ResetFilters(ctx context.Context, id string) (session.ViewState, error) {
	args := m.Called(id)
	return args.Get(0).(session.ViewState), args.Error(1)
}

func (m *MockSessionService) RenderSession(ctx context.Context, id string) (*domain.ViewModel, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ViewModel), args.Error(1)
}

func newSessionRouter(t *testing.T, svc *MockSessionService) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewSessionHandler(svc, logger, apierrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Mount("/api/sessions", h.Routes())
	return r
}

func sampleState(view domain.View) session.ViewState {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state := session.NewViewState("s-1", now)
	state.ActiveView = view
	return *state
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSessionHandler_Lifecycle(t *testing.T) {
	svc := new(MockSessionService)
	svc.On("CreateSession").Return(sampleState(domain.ViewOverview), nil)
	svc.On("Session", "s-1").Return(sampleState(domain.ViewOverview), nil)
	svc.On("EndSession", "s-1").Return(nil)
	router := newSessionRouter(t, svc)

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeJSON(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "s-1", data["id"])
	assert.Equal(t, "OVERVIEW", data["active_view"])

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/sessions/s-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodDelete, "/api/sessions/s-1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	svc.AssertExpectations(t)
}

func TestSessionHandler_Errors(t *testing.T) {
	tests := []struct {
		name           string
		req            *http.Request
		setupMock      func(*MockSessionService)
		expectedStatus int
		expectedType   string
	}{
		{
			name: "unknown session",
			req:  httptest.NewRequest(http.MethodGet, "/api/sessions/nope", nil),
			setupMock: func(m *MockSessionService) {
				m.On("Session", "nope").Return(session.ViewState{}, session.ErrSessionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedType:   apierrors.TypeSessionNotFound,
		},
		{
			name: "capacity reached",
			req:  httptest.NewRequest(http.MethodPost, "/api/sessions", nil),
			setupMock: func(m *MockSessionService) {
				m.On("CreateSession").Return(session.ViewState{}, session.ErrTooManySessions)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedType:   apierrors.TypeSessionCapacity,
		},
		{
			name:           "invalid view name",
			req:            jsonRequest(http.MethodPut, "/api/sessions/s-1/view", `{"view":"MAP"}`),
			setupMock:      func(m *MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name:           "malformed body",
			req:            jsonRequest(http.MethodPut, "/api/sessions/s-1/view", `{"view":`),
			setupMock:      func(m *MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name: "wrong content type",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodPut, "/api/sessions/s-1/view", strings.NewReader(`view=MAP`))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return req
			}(),
			setupMock:      func(m *MockSessionService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name:           "body is not json",
			req:            jsonRequest(http.MethodPut, "/api/sessions/s-1/filters", `start=2024-01-01`),
			setupMock:      func(m *MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeValidation,
		},
		{
			name: "render rejected filters",
			req:  httptest.NewRequest(http.MethodGet, "/api/sessions/s-1/render", nil),
			setupMock: func(m *MockSessionService) {
				m.On("RenderSession", "s-1").Return(nil, dashboard.ErrFilterNotSupported)
			},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.TypeFilterNotSupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockSessionService)
			tt.setupMock(svc)
			router := newSessionRouter(t, svc)

			rec := serve(router, tt.req)
			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.expectedType, decodeJSON(t, rec)["type"])
			svc.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_SelectView(t *testing.T) {
	svc := new(MockSessionService)
	svc.On("SelectView", "s-1", "vehicle type").Return(sampleState(domain.ViewVehicleType), nil)
	router := newSessionRouter(t, svc)

	rec := serve(router, jsonRequest(http.MethodPut, "/api/sessions/s-1/view", `{"view":"vehicle type"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeJSON(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "VEHICLE_TYPE", data["active_view"])
}

func TestSessionHandler_SetFilters(t *testing.T) {
	jan := domain.Filters{
		Start:       domain.MustParseDate("2024-01-01"),
		End:         domain.MustParseDate("2024-01-31"),
		VehicleType: "auto",
	}

	t.Run("active view", func(t *testing.T) {
		svc := new(MockSessionService)
		svc.On("SetFilters", "s-1", domain.View(""), jan).Return(sampleState(domain.ViewOverview), nil)
		router := newSessionRouter(t, svc)

		rec := serve(router, jsonRequest(http.MethodPut, "/api/sessions/s-1/filters",
			`{"start":"2024-01-01","end":"2024-01-31","vehicle_type":"auto"}`))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("query view wins", func(t *testing.T) {
		svc := new(MockSessionService)
		svc.On("SetFilters", "s-1", domain.ViewRevenue, domain.Filters{}).Return(sampleState(domain.ViewOverview), nil)
		router := newSessionRouter(t, svc)

		rec := serve(router, jsonRequest(http.MethodPut, "/api/sessions/s-1/filters?view=revenue", `{"view":"RATINGS"}`))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("empty body clears", func(t *testing.T) {
		svc := new(MockSessionService)
		svc.On("SetFilters", "s-1", domain.View(""), domain.Filters{}).Return(sampleState(domain.ViewOverview), nil)
		router := newSessionRouter(t, svc)

		rec := serve(router, httptest.NewRequest(http.MethodPut, "/api/sessions/s-1/filters", nil))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("reset", func(t *testing.T) {
		svc := new(MockSessionService)
		svc.On("ResetFilters", "s-1").Return(sampleState(domain.ViewRatings), nil)
		router := newSessionRouter(t, svc)

		rec := serve(router, httptest.NewRequest(http.MethodDelete, "/api/sessions/s-1/filters", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestSessionHandler_Render(t *testing.T) {
	svc := new(MockSessionService)
	svc.On("RenderSession", "s-1").Return(&domain.ViewModel{View: domain.ViewCancellation, RowCount: 3}, nil)
	router := newSessionRouter(t, svc)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/sessions/s-1/render", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeJSON(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "CANCELLATION", data["view"])
}
