package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdavey/taskhub-api/internal/domain"
)

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("admin reads the counters", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		admin := env.seedUser(t, "admin", domain.RoleAdmin, true)
		env.seedUser(t, "emp", domain.RoleEmployee, true)
		env.seedTask(t, "Open")
		done := env.seedTask(t, "Done")
		done.Status = domain.TaskStatusCompleted
		require.NoError(t, env.taskStore.Update(context.Background(), done))

		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, authed(req, env.tokenFor(t, admin)))

		require.Equal(t, http.StatusOK, w.Code)

		var resp StatsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(2), resp.TotalUsers)
		assert.Equal(t, int64(2), resp.TotalTasks)
		assert.Equal(t, int64(1), resp.CompletedTasks)
	})

	t.Run("employee is forbidden", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		employee := env.seedUser(t, "emp", domain.RoleEmployee, true)

		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, authed(req, env.tokenFor(t, employee)))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
