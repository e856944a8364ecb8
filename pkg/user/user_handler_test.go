package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_CurrentUser(t *testing.T) {
	service := NewUserService(NewStubUserRepository(User{Id: 1, Uid: "abc", Username: "ana", DisplayName: "Ana", Timezone: "Europe/Madrid"}))
	handler := NewHandler(service)

	t.Run("returns the user bound to the request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
		req = req.WithContext(WithUser(req.Context(), User{Id: 1, Uid: "abc"}))
		w := httptest.NewRecorder()

		handler.CurrentUser(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var dto UserDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.Equal(t, UserDTO{Uid: "abc", Username: "ana", DisplayName: "Ana", Timezone: "Europe/Madrid"}, dto)
	})

	t.Run("forbidden without user", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CurrentUser(w, httptest.NewRequest(http.MethodGet, "/api/user/current", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("not found when the user was removed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
		req = req.WithContext(WithUser(req.Context(), User{Id: 99}))
		w := httptest.NewRecorder()

		handler.CurrentUser(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
