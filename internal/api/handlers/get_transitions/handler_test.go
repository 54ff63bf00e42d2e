package get_transitions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/pkg/logger"
)

func get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewHandler(logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleFromStatus(t *testing.T) {
	rec := get(t, "/api/v1/appointments/transitions?from=confirmed")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp TransitionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "confirmed", resp.From)
	assert.Equal(t, []string{"in_progress", "cancelled"}, resp.Allowed)
	assert.False(t, resp.Terminal)
}

func TestHandleTerminalStatus(t *testing.T) {
	rec := get(t, "/api/v1/appointments/transitions?from=completed")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp TransitionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Allowed)
	assert.True(t, resp.Terminal)
}

func TestHandleFullTable(t *testing.T) {
	rec := get(t, "/api/v1/appointments/transitions")

	require.Equal(t, http.StatusOK, rec.Code)
	var table []TransitionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&table))
	require.Len(t, table, 5)
	assert.Equal(t, "scheduled", table[0].From)
	assert.Equal(t, []string{"confirmed", "cancelled"}, table[0].Allowed)
}

func TestHandleUnknownStatus(t *testing.T) {
	rec := get(t, "/api/v1/appointments/transitions?from=pending")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
