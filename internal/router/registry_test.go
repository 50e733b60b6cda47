package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readOnlyViewSet struct{}

func (readOnlyViewSet) ResourceName() string { return "thing" }
func (readOnlyViewSet) List(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("list"))
}
func (readOnlyViewSet) Retrieve(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("retrieve " + chi.URLParam(r, "pk")))
}

type createOnlyViewSet struct{}

func (createOnlyViewSet) Create(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusCreated)
}

type getView struct{}

func (getView) Get(w http.ResponseWriter, r *http.Request) { w.Write([]byte("view")) }

func TestRegistryRoutes(t *testing.T) {
	reg := NewRegistry()
	reg.Register("things", readOnlyViewSet{}, "")
	reg.Register("/login/", createOnlyViewSet{}, "login")
	reg.Handle("/plain/", getView{})

	routes := reg.Routes()
	require.Len(t, routes, 4)

	assert.Equal(t, Route{Name: "thing-list", Pattern: "/things/", Methods: []string{"GET"}}, routes[0])
	assert.Equal(t, Route{Name: "thing-detail", Pattern: "/things/{pk}/", Methods: []string{"GET"}}, routes[1])
	assert.Equal(t, Route{Name: "login-list", Pattern: "/login/", Methods: []string{"POST"}}, routes[2])
	assert.Equal(t, Route{Name: "plain", Pattern: "/plain/", Methods: []string{"GET"}}, routes[3])
}

func TestRegistryPanics(t *testing.T) {
	assert.Panics(t, func() { NewRegistry().Register("x", createOnlyViewSet{}, "") }, "missing basename")
	assert.Panics(t, func() { NewRegistry().Register("x", struct{}{}, "x") }, "no actions")
	assert.Panics(t, func() { NewRegistry().Handle("x", struct{}{}) }, "no methods")
	assert.Panics(t, func() {
		reg := NewRegistry()
		reg.Register("x", readOnlyViewSet{}, "")
		reg.Register("x", readOnlyViewSet{}, "")
	}, "duplicate prefix")
}

func TestRegistryMount(t *testing.T) {
	reg := NewRegistry()
	reg.Register("things", readOnlyViewSet{}, "")
	reg.Register("login", createOnlyViewSet{}, "login")
	reg.Handle("plain", getView{})

	r := chi.NewRouter()
	r.Use(chimw.StripSlashes)
	r.Route("/api", reg.Mount)

	tests := []struct {
		method, path string
		wantStatus   int
		wantBody     string
	}{
		{http.MethodGet, "/api/things/", http.StatusOK, "list"},
		{http.MethodGet, "/api/things", http.StatusOK, "list"},
		{http.MethodGet, "/api/things/7/", http.StatusOK, "retrieve 7"},
		{http.MethodPost, "/api/things/", http.StatusMethodNotAllowed, ""},
		{http.MethodDelete, "/api/things/7", http.StatusMethodNotAllowed, ""},
		{http.MethodPost, "/api/login/", http.StatusCreated, ""},
		{http.MethodGet, "/api/login/1/", http.StatusNotFound, ""},
		{http.MethodGet, "/api/plain/", http.StatusOK, "view"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var root map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &root))
	assert.Equal(t, map[string]string{"things": "http://example.com/api/things/"}, root)
}
