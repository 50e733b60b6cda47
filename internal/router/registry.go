// Package router turns registered viewsets and API views into chi routes.
package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Viewset actions. A viewset implements any subset; only implemented
// actions get routes.
type (
	Lister         interface{ List(http.ResponseWriter, *http.Request) }
	Creator        interface{ Create(http.ResponseWriter, *http.Request) }
	Retriever      interface{ Retrieve(http.ResponseWriter, *http.Request) }
	Updater        interface{ Update(http.ResponseWriter, *http.Request) }
	PartialUpdater interface{ PartialUpdate(http.ResponseWriter, *http.Request) }
	Destroyer      interface{ Destroy(http.ResponseWriter, *http.Request) }
)

// ResourceNamer lets a viewset supply its default basename.
type ResourceNamer interface {
	ResourceName() string
}

// API view methods, one per HTTP verb.
type (
	Getter  interface{ Get(http.ResponseWriter, *http.Request) }
	Poster  interface{ Post(http.ResponseWriter, *http.Request) }
	Putter  interface{ Put(http.ResponseWriter, *http.Request) }
	Patcher interface{ Patch(http.ResponseWriter, *http.Request) }
	Deleter interface{ Delete(http.ResponseWriter, *http.Request) }
)

// Route describes one generated URL pattern.
type Route struct {
	Name    string
	Pattern string
	Methods []string
}

type registration struct {
	prefix      string
	basename    string
	viewset     any
	middlewares []func(http.Handler) http.Handler
}

type apiView struct {
	path        string
	view        any
	middlewares []func(http.Handler) http.Handler
}

// Registry collects viewsets and API views before they are mounted.
type Registry struct {
	viewsets []registration
	views    []apiView
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a viewset under prefix. An empty basename falls back to the
// viewset's ResourceName; registration panics when neither is available or
// when the viewset implements no actions.
func (rg *Registry) Register(prefix string, viewset any, basename string, mws ...func(http.Handler) http.Handler) {
	prefix = strings.Trim(prefix, "/")
	if basename == "" {
		rn, ok := viewset.(ResourceNamer)
		if !ok {
			panic(fmt.Sprintf("router: basename required for %q: %T has no ResourceName", prefix, viewset))
		}
		basename = rn.ResourceName()
	}
	if len(listMethods(viewset)) == 0 && len(detailMethods(viewset)) == 0 {
		panic(fmt.Sprintf("router: %T registered at %q implements no actions", viewset, prefix))
	}
	for _, reg := range rg.viewsets {
		if reg.prefix == prefix {
			panic(fmt.Sprintf("router: prefix %q registered twice", prefix))
		}
	}

	rg.viewsets = append(rg.viewsets, registration{
		prefix:      prefix,
		basename:    basename,
		viewset:     viewset,
		middlewares: mws,
	})
}

// Handle adds an API view routed manually at path.
func (rg *Registry) Handle(path string, view any, mws ...func(http.Handler) http.Handler) {
	if len(viewMethods(view)) == 0 {
		panic(fmt.Sprintf("router: %T at %q handles no methods", view, path))
	}
	rg.views = append(rg.views, apiView{path: strings.Trim(path, "/"), view: view, middlewares: mws})
}

// Routes lists the generated routes in registration order, relative to the
// point the registry is mounted.
func (rg *Registry) Routes() []Route {
	var routes []Route
	for _, reg := range rg.viewsets {
		if m := listMethods(reg.viewset); len(m) > 0 {
			routes = append(routes, Route{Name: reg.basename + "-list", Pattern: "/" + reg.prefix + "/", Methods: m})
		}
		if m := detailMethods(reg.viewset); len(m) > 0 {
			routes = append(routes, Route{Name: reg.basename + "-detail", Pattern: "/" + reg.prefix + "/{pk}/", Methods: m})
		}
	}
	for _, v := range rg.views {
		routes = append(routes, Route{Name: v.path, Pattern: "/" + v.path + "/", Methods: viewMethods(v.view)})
	}
	return routes
}

// Mount attaches the API root and every registered route to r. Paths are
// registered without trailing slashes; the top-level router strips them.
func (rg *Registry) Mount(r chi.Router) {
	r.Get("/", rg.apiRoot)

	for _, reg := range rg.viewsets {
		vs := reg.viewset
		r.Route("/"+reg.prefix, func(r chi.Router) {
			r.Use(reg.middlewares...)

			if v, ok := vs.(Lister); ok {
				r.Get("/", v.List)
			}
			if v, ok := vs.(Creator); ok {
				r.Post("/", v.Create)
			}
			if v, ok := vs.(Retriever); ok {
				r.Get("/{pk}", v.Retrieve)
			}
			if v, ok := vs.(Updater); ok {
				r.Put("/{pk}", v.Update)
			}
			if v, ok := vs.(PartialUpdater); ok {
				r.Patch("/{pk}", v.PartialUpdate)
			}
			if v, ok := vs.(Destroyer); ok {
				r.Delete("/{pk}", v.Destroy)
			}
		})
	}

	for _, av := range rg.views {
		view := av.view
		r.Group(func(r chi.Router) {
			r.Use(av.middlewares...)
			path := "/" + av.path

			if v, ok := view.(Getter); ok {
				r.Get(path, v.Get)
			}
			if v, ok := view.(Poster); ok {
				r.Post(path, v.Post)
			}
			if v, ok := view.(Putter); ok {
				r.Put(path, v.Put)
			}
			if v, ok := view.(Patcher); ok {
				r.Patch(path, v.Patch)
			}
			if v, ok := view.(Deleter); ok {
				r.Delete(path, v.Delete)
			}
		})
	}
}

// apiRoot lists the absolute URL of every viewset that has a list route.
func (rg *Registry) apiRoot(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	base := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/")

	links := make(map[string]string)
	for _, reg := range rg.viewsets {
		if _, ok := reg.viewset.(Lister); ok {
			links[reg.prefix] = base + "/" + reg.prefix + "/"
		}
	}
	writeJSON(w, http.StatusOK, links)
}

func listMethods(vs any) []string {
	var m []string
	if _, ok := vs.(Lister); ok {
		m = append(m, http.MethodGet)
	}
	if _, ok := vs.(Creator); ok {
		m = append(m, http.MethodPost)
	}
	return m
}

func detailMethods(vs any) []string {
	var m []string
	if _, ok := vs.(Retriever); ok {
		m = append(m, http.MethodGet)
	}
	if _, ok := vs.(Updater); ok {
		m = append(m, http.MethodPut)
	}
	if _, ok := vs.(PartialUpdater); ok {
		m = append(m, http.MethodPatch)
	}
	if _, ok := vs.(Destroyer); ok {
		m = append(m, http.MethodDelete)
	}
	return m
}

func viewMethods(v any) []string {
	var m []string
	if _, ok := v.(Getter); ok {
		m = append(m, http.MethodGet)
	}
	if _, ok := v.(Poster); ok {
		m = append(m, http.MethodPost)
	}
	if _, ok := v.(Putter); ok {
		m = append(m, http.MethodPut)
	}
	if _, ok := v.(Patcher); ok {
		m = append(m, http.MethodPatch)
	}
	if _, ok := v.(Deleter); ok {
		m = append(m, http.MethodDelete)
	}
	return m
}
