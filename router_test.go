package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"sheetEngine/mocks"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	expectedApiRoutes := [][3]string{
		{http.MethodPost, "/:sheet_id/:cell_id", "SetCellAction"},
		{http.MethodGet, "/:sheet_id/:cell_id", "GetCellAction"},
		{http.MethodGet, "/:sheet_id", "GetSheetAction"},
		{http.MethodPost, "/:sheet_id/:cell_id/" + subscribePath, "SubscribeAction"},
	}

	for _, expectedRoute := range expectedApiRoutes {
		t.Run("Route "+expectedRoute[2], func(t *testing.T) {
			apiController := mocks.NewApiController(t)
			router := SetupRouter(apiController, nil, nil)

			apiController.On(expectedRoute[2], mock.Anything).Return()

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(expectedRoute[0], "/api/"+ApiVersion+expectedRoute[1], nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			apiController.AssertNumberOfCalls(t, expectedRoute[2], 1)
		})
	}

	t.Run("healthcheck", func(t *testing.T) {
		apiController := mocks.NewApiController(t)
		router := SetupRouter(apiController, nil, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/healthcheck", nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "health", w.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		metrics := NewMetrics()
		metrics.ObserveEdit(3, nil)
		router := SetupRouter(mocks.NewApiController(t), metrics.Handler(), nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, metricsPath, nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "sheet_engine_cell_edits_total")
	})

	t.Run("no metrics handler", func(t *testing.T) {
		router := SetupRouter(mocks.NewApiController(t), nil, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, metricsPath, nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("request logging", func(t *testing.T) {
		logger, hook := logrustest.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		router := SetupRouter(mocks.NewApiController(t), nil, logger)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/healthcheck", nil)
		router.ServeHTTP(w, req)

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, "/healthcheck", hook.LastEntry().Data["path"])
		assert.Equal(t, http.StatusOK, hook.LastEntry().Data["status"])
	})
}
