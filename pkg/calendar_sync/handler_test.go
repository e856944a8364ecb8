package calendar_sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studianta/studianta/internal/rest"
	"github.com/studianta/studianta/pkg/user"
)

func withUserID(userId int, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := user.WithUser(r.Context(), user.User{Id: userId})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TestHandler_Sync(t *testing.T) {
	service, bridge, _ := setupService(time.Second)
	bridge.On("SyncEvents", mock.Anything, testUserId, mock.Anything, mock.Anything).Return(Result{Created: 2}, nil)
	handler := NewHandler(service)
	w := httptest.NewRecorder()

	withUserID(testUserId, handler.Sync).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/integrations/google/sync", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var dto ResultDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, 2, dto.Created)
	assert.Equal(t, 0, dto.Errors)
	assert.Equal(t, []string{}, dto.Failures)
}

func TestHandler_Sync_ReportsFailureCount(t *testing.T) {
	service, bridge, _ := setupService(time.Second)
	bridge.On("SyncEvents", mock.Anything, testUserId, mock.Anything, mock.Anything).
		Return(Result{Created: 1, Updated: 1, Errors: []string{"milestone-m1: quota", "custom-c1: quota"}}, nil)
	handler := NewHandler(service)
	w := httptest.NewRecorder()

	withUserID(testUserId, handler.Sync).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/integrations/google/sync", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, float64(1), body["created"])
	assert.Equal(t, float64(1), body["updated"])
	assert.Equal(t, float64(2), body["errors"])
	assert.Len(t, body["failures"], 2)
}

func TestHandler_Sync_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthenticated", ErrUnauthenticated, http.StatusForbidden},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"provider", errors.New("googleapi: Error 500"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, bridge, _ := setupService(time.Second)
			bridge.On("SyncEvents", mock.Anything, testUserId, mock.Anything, mock.Anything).Return(Result{}, tt.err)
			handler := NewHandler(service)
			w := httptest.NewRecorder()

			withUserID(testUserId, handler.Sync).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/integrations/google/sync", nil))

			assert.Equal(t, tt.status, w.Code)
			var errResponse rest.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
			assert.NotEmpty(t, errResponse.Error)
		})
	}
}

func TestHandler_Sync_InProgress(t *testing.T) {
	service, bridge, _ := setupService(time.Second)
	entered := make(chan struct{})
	release := make(chan struct{})
	bridge.On("SyncEvents", mock.Anything, testUserId, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(Result{}, nil)
	handler := NewHandler(service)

	done := make(chan struct{})
	go func() {
		defer close(done)
		withUserID(testUserId, handler.Sync).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	}()
	<-entered

	w := httptest.NewRecorder()
	withUserID(testUserId, handler.Sync).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	close(release)
	<-done
}

func TestHandler_Login(t *testing.T) {
	service, bridge, _ := setupService(time.Second)
	bridge.On("AuthURL", mock.Anything, testUserId, "http://app/settings").Return("https://accounts.example/auth?state=x", nil)
	handler := NewHandler(service)
	w := httptest.NewRecorder()

	withUserID(testUserId, handler.Login).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/integrations/google/auth/login?finalUrl=http://app/settings", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var dto AuthRedirectDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, "https://accounts.example/auth?state=x", dto.RedirectUrl)
}

func TestHandler_Login_DefaultsFinalUrl(t *testing.T) {
	service, bridge, _ := setupService(time.Second)
	bridge.On("AuthURL", mock.Anything, testUserId, DefaultFinalUrl).Return("https://accounts.example/auth?state=y", nil)
	handler := NewHandler(service)
	w := httptest.NewRecorder()

	withUserID(testUserId, handler.Login).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/integrations/google/auth/login", nil))

	require.Equal(t, http.StatusOK, w.Code)
	bridge.AssertCalled(t, "AuthURL", mock.Anything, testUserId, DefaultFinalUrl)
}

func TestHandler_Callback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, bridge, _ := setupService(time.Second)
		bridge.On("HandleCallback", mock.Anything, "abc", "state").Return("http://app/settings?tab=sync", nil)
		w := httptest.NewRecorder()

		NewHandler(service).Callback(w, httptest.NewRequest(http.MethodGet, "/cb?code=abc&state=state", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://app/settings?success=true&tab=sync", w.Header().Get("Location"))
	})

	t.Run("exchange failure", func(t *testing.T) {
		service, bridge, _ := setupService(time.Second)
		bridge.On("HandleCallback", mock.Anything, "abc", "state").Return("http://app/settings", errors.New("bad code"))
		w := httptest.NewRecorder()

		NewHandler(service).Callback(w, httptest.NewRequest(http.MethodGet, "/cb?code=abc&state=state", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://app/settings?success=false", w.Header().Get("Location"))
	})

	t.Run("default final url", func(t *testing.T) {
		service, bridge, _ := setupService(time.Second)
		bridge.On("HandleCallback", mock.Anything, "abc", "/|nonce").Return("/", nil)
		w := httptest.NewRecorder()

		NewHandler(service).Callback(w, httptest.NewRequest(http.MethodGet, "/cb?code=abc&state=%2F%7Cnonce", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/?success=true", w.Header().Get("Location"))
	})

	t.Run("invalid state", func(t *testing.T) {
		service, bridge, _ := setupService(time.Second)
		bridge.On("HandleCallback", mock.Anything, "abc", "garbage").Return("", ErrInvalidState)
		w := httptest.NewRecorder()

		NewHandler(service).Callback(w, httptest.NewRequest(http.MethodGet, "/cb?code=abc&state=garbage", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_IsConnectedAndLogout(t *testing.T) {
	service, bridge, _ := setupService(time.Second)
	bridge.On("IsConnected", mock.Anything, testUserId).Return(false, nil)
	bridge.On("Disconnect", mock.Anything, testUserId).Return(nil)
	handler := NewHandler(service)

	w := httptest.NewRecorder()
	withUserID(testUserId, handler.IsConnected).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/integrations/google/auth", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"connected":false}`, w.Body.String())

	w = httptest.NewRecorder()
	withUserID(testUserId, handler.Logout).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/integrations/google/auth/logout", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	handler.Logout(w, httptest.NewRequest(http.MethodDelete, "/api/integrations/google/auth/logout", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
