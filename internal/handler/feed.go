package handler

import (
	"net/http"

	"github.com/wmbogo12/profiles-rest-api/internal/model"
	"github.com/wmbogo12/profiles-rest-api/internal/service"
)

// FeedViewSet handles HTTP requests for profile feed items.
type FeedViewSet struct {
	service *service.FeedService
}

// NewFeedViewSet creates a new FeedViewSet.
func NewFeedViewSet(svc *service.FeedService) *FeedViewSet {
	return &FeedViewSet{service: svc}
}

func (h *FeedViewSet) ResourceName() string { return "profilefeeditem" }

func (h *FeedViewSet) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create handles POST /api/feed/ requests. Any user_profile in the body is
// ignored; the item always belongs to the caller.
func (h *FeedViewSet) Create(w http.ResponseWriter, r *http.Request) {
	var in model.FeedItemInput
	if !decodeJSON(w, r, &in) {
		return
	}

	resp, err := h.service.Create(r.Context(), callerID(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *FeedViewSet) Retrieve(w http.ResponseWriter, r *http.Request) {
	pk, ok := pkParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), callerID(r), pk)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *FeedViewSet) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *FeedViewSet) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *FeedViewSet) update(w http.ResponseWriter, r *http.Request, partial bool) {
	pk, ok := pkParam(w, r)
	if !ok {
		return
	}
	var in model.FeedItemInput
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

func (h *FeedViewSet) Destroy(w http.ResponseWriter, r *http.Request) {
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
