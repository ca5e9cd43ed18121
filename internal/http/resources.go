package http

import (
	"net/http"

	"nobudget/internal/crud"
)

// mountResource registers the four CRUD routes of one collection. The key
// segment is a record id or, for name sets, the name itself.
func mountResource[T any](mux *http.ServeMux, path string, svc *crud.Service[T]) {
	h := resource[T]{svc: svc}
	mux.HandleFunc("GET "+path, h.list)
	mux.HandleFunc("POST "+path, h.create)
	mux.HandleFunc("PUT "+path+"/{key}", h.update)
	mux.HandleFunc("DELETE "+path+"/{key}", h.remove)
}

type resource[T any] struct {
	svc *crud.Service[T]
}

func (h resource[T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h resource[T]) create(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.Create(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.svc.Strategy().Present(item))
}

func (h resource[T]) update(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.Update(r.Context(), r.PathValue("key"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Strategy().Present(item))
}

func (h resource[T]) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("key")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}
