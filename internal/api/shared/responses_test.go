package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	RespondWithJSON(recorder, req, http.StatusCreated, MsgResponse{Msg: "done"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"msg":"done"}`, recorder.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	t.Run("carries the request trace ID", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/test", nil)
		ctx := SetTraceID(req.Context())
		req = req.WithContext(ctx)

		recorder := httptest.NewRecorder()
		RespondWithError(recorder, req, http.StatusNotFound, "Task does not exist")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "Task does not exist", resp.Error)
		assert.Equal(t, GetTraceID(ctx), resp.TraceID)
		assert.NotEmpty(t, resp.TraceID)
	})

	t.Run("omits the trace ID when absent", func(t *testing.T) {
		t.Parallel()
		recorder := httptest.NewRecorder()
		RespondWithError(recorder, httptest.NewRequest("GET", "/test", nil),
			http.StatusUnauthorized, "Not authenticated")

		assert.NotContains(t, recorder.Body.String(), "trace_id")
	})
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/test", nil)
	recorder := httptest.NewRecorder()
	RespondWithErrorAndLog(recorder, req, http.StatusInternalServerError,
		"An unexpected error occurred",
		errors.New("pq: password authentication failed for user \"app\""))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	// The raw error must never reach the client, only the safe message.
	body := recorder.Body.String()
	assert.Contains(t, body, "An unexpected error occurred")
	assert.NotContains(t, body, "password authentication")
}
