package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luisf/smartplayer-backend/internal/models"
	"github.com/luisf/smartplayer-backend/tests/testutil"
)

func newIngestApp(ingest *testutil.MockIngestService) http.Handler {
	handler := NewIngestHandler(ingest)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/api/v1/ingest/listings", handler.StoreListings)
	return app
}

func TestIngestHandler_StoreListings_Success(t *testing.T) {
	ingest := new(testutil.MockIngestService)
	ingest.On("StoreListings", mock.Anything, mock.Anything).Return(nil)
	app := newIngestApp(ingest)

	rec := postJSON(t, app, "/api/v1/ingest/listings", map[string]any{
		"events": []map[string]any{
			{"title": "Sunday League", "url": "https://example.com/sunday"},
			{"title": "Padel Open", "url": "https://example.com/padel", "isRecurring": true},
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, float64(2), response["count"])

	ingest.AssertCalled(t, "StoreListings", mock.Anything, mock.MatchedBy(func(listings []models.EventListing) bool {
		return len(listings) == 2 && listings[0].Title == "Sunday League" && listings[1].IsRecurring
	}))
}

func TestIngestHandler_StoreListings_InvalidBody(t *testing.T) {
	ingest := new(testutil.MockIngestService)
	app := newIngestApp(ingest)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/listings", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ingest.AssertNotCalled(t, "StoreListings", mock.Anything, mock.Anything)
}

func TestIngestHandler_StoreListings_StoreFailure(t *testing.T) {
	ingest := new(testutil.MockIngestService)
	ingest.On("StoreListings", mock.Anything, mock.Anything).Return(errors.New("database unavailable"))
	app := newIngestApp(ingest)

	rec := postJSON(t, app, "/api/v1/ingest/listings", map[string]any{"events": []map[string]any{}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
