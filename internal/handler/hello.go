package handler

import (
	"net/http"

	"github.com/wmbogo12/profiles-rest-api/internal/model"
	"github.com/wmbogo12/profiles-rest-api/internal/serializer"
)

// HelloAPIView is a manually routed view with one handler per HTTP method.
type HelloAPIView struct {
	serializer serializer.HelloSerializer
}

// NewHelloAPIView creates a new HelloAPIView.
func NewHelloAPIView() *HelloAPIView {
	return &HelloAPIView{}
}

// Get handles GET /api/hello-view/ requests.
func (h *HelloAPIView) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HelloAPIViewResponse{
		Message: "Hello!",
		AnAPIView: []string{
			"Uses HTTP methods as handler functions (get, post, put, patch, delete)",
			"Is similar to a traditional net/http handler",
			"Gives you the most control over your application logic",
			"Is mapped manually to URLs",
		},
	})
}

// Post handles POST /api/hello-view/ requests.
func (h *HelloAPIView) Post(w http.ResponseWriter, r *http.Request) {
	var req model.HelloRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.serializer.Validate(req, false); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.HelloResponse{Message: "Hello " + *req.Name})
}

func (h *HelloAPIView) Put(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.MethodResponse{Method: http.MethodPut})
}

func (h *HelloAPIView) Patch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.MethodResponse{Method: http.MethodPatch})
}

func (h *HelloAPIView) Delete(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.MethodResponse{Method: http.MethodDelete})
}

// HelloViewSet demonstrates router-generated list and detail routes.
type HelloViewSet struct {
	serializer serializer.HelloSerializer
}

// NewHelloViewSet creates a new HelloViewSet.
func NewHelloViewSet() *HelloViewSet {
	return &HelloViewSet{}
}

func (h *HelloViewSet) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HelloViewSetResponse{
		Message: "Hello!",
		AViewSet: []string{
			"Uses actions (list, create, retrieve, update, partial_update)",
			"Automatically maps to URLs using Routers",
			"Provides more functionality with less code",
		},
	})
}

func (h *HelloViewSet) Create(w http.ResponseWriter, r *http.Request) {
	var req model.HelloRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.serializer.Validate(req, false); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.HelloResponse{Message: "Hello " + *req.Name + "!"})
}

func (h *HelloViewSet) Retrieve(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.ActionResponse{HTTPMethod: http.MethodGet})
}

func (h *HelloViewSet) Update(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.ActionResponse{HTTPMethod: http.MethodPut})
}

func (h *HelloViewSet) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.ActionResponse{HTTPMethod: http.MethodPatch})
}

func (h *HelloViewSet) Destroy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.ActionResponse{HTTPMethod: http.MethodDelete})
}
