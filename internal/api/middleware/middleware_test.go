package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	var got string
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, " frontdesk ")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "frontdesk", got)
}

type observation struct {
	method, route string
	status        int
}

type fakeRecorder struct{ seen []observation }

func (f *fakeRecorder) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.seen = append(f.seen, observation{method, route, status})
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	recorder := &fakeRecorder{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(recorder))
	r.HandleFunc("/appointments/{appointmentId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/appointments/A1", nil))

	require.Len(t, recorder.seen, 1)
	assert.Equal(t, observation{http.MethodGet, "/appointments/{appointmentId}", http.StatusNotFound}, recorder.seen[0])
}
