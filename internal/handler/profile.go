package handler

import (
	"net/http"

	"github.com/wmbogo12/profiles-rest-api/internal/model"
	"github.com/wmbogo12/profiles-rest-api/internal/service"
)

// ProfileViewSet handles HTTP requests for user profiles. Reads and
// registration are open; changes are limited to the profile's owner.
type ProfileViewSet struct {
	service *service.ProfileService
}

// NewProfileViewSet creates a new ProfileViewSet.
func NewProfileViewSet(svc *service.ProfileService) *ProfileViewSet {
	return &ProfileViewSet{service: svc}
}

func (h *ProfileViewSet) ResourceName() string { return "userprofile" }

// List handles GET /api/profile/ requests, honouring ?search=.
func (h *ProfileViewSet) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// Create handles POST /api/profile/ requests.
func (h *ProfileViewSet) Create(w http.ResponseWriter, r *http.Request) {
	var in model.UserProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}

	resp, err := h.service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Retrieve handles GET /api/profile/{pk}/ requests.
func (h *ProfileViewSet) Retrieve(w http.ResponseWriter, r *http.Request) {
	pk, ok := pkParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), pk)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update handles PUT /api/profile/{pk}/ requests.
func (h *ProfileViewSet) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

// PartialUpdate handles PATCH /api/profile/{pk}/ requests.
func (h *ProfileViewSet) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *ProfileViewSet) update(w http.ResponseWriter, r *http.Request, partial bool) {
	pk, ok := pkParam(w, r)
	if !ok {
		return
	}
	var in model.UserProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}

	resp, err := h.service.Update(r.Context(), callerID(r), pk, in, partial)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Destroy handles DELETE /api/profile/{pk}/ requests.
func (h *ProfileViewSet) Destroy(w http.ResponseWriter, r *http.Request) {
	pk, ok := pkParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), callerID(r), pk); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
