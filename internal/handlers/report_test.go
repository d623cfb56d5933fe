package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luisf/smartplayer-backend/internal/services"
	"github.com/luisf/smartplayer-backend/tests/testutil"
)

func newReportApp(reports *testutil.MockFieldReportService) http.Handler {
	handler := NewReportHandler(reports)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/api/v1/reports/:reportId/process", handler.Reprocess)
	return app
}

func TestReportHandler_Reprocess_Success(t *testing.T) {
	reports := new(testutil.MockFieldReportService)
	reports.On("Reprocess", mock.Anything, "r1").Return(nil)
	app := newReportApp(reports)

	rec := postJSON(t, app, "/api/v1/reports/r1/process", map[string]any{})

	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Contains(t, response["message"], "r1")
	reports.AssertExpectations(t)
}

func TestReportHandler_Reprocess_NotFound(t *testing.T) {
	reports := new(testutil.MockFieldReportService)
	reports.On("Reprocess", mock.Anything, "missing").Return(services.ErrReportNotFound)
	app := newReportApp(reports)

	rec := postJSON(t, app, "/api/v1/reports/missing/process", map[string]any{})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportHandler_Reprocess_ProcessingFailure(t *testing.T) {
	reports := new(testutil.MockFieldReportService)
	reports.On("Reprocess", mock.Anything, "r1").Return(errors.New("firestore down"))
	app := newReportApp(reports)

	rec := postJSON(t, app, "/api/v1/reports/r1/process", map[string]any{})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "firestore down", response["error"])
}
