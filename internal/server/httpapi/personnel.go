package httpapi

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"personnel/internal/server/service"
	"personnel/internal/shared/models"
)

func recordID(req *http.Request) string {
	id := chi.URLParam(req, "id")
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}

func (r *Router) handleListPersonnel(w http.ResponseWriter, req *http.Request) {
	mode := models.SortDescend
	if raw := req.URL.Query().Get("mode"); raw != "" {
		parsed, ok := models.ParseSortMode(raw)
		if !ok {
			r.writeError(w, req, service.ValidationErrors{{
				Loc:  []any{"query", "mode"},
				Msg:  "Input should be 'ascend' or 'descend'",
				Type: "enum",
			}})
			return
		}
		mode = parsed
	}
	people, err := r.services.Personnel.List(req.Context(), mode)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, models.PersonList{Items: people, Count: len(people)})
}

func (r *Router) handleGetPersonnel(w http.ResponseWriter, req *http.Request) {
	p, err := r.services.Personnel.Get(req.Context(), recordID(req))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (r *Router) handleCreatePersonnel(w http.ResponseWriter, req *http.Request) {
	sub, err := r.decodeSubmission(w, req)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	p, err := r.services.Personnel.Create(req.Context(), sub)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (r *Router) handleUpdatePersonnel(w http.ResponseWriter, req *http.Request) {
	sub, err := r.decodeSubmission(w, req)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	p, err := r.services.Personnel.Update(req.Context(), recordID(req), sub)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (r *Router) handleDeletePersonnel(w http.ResponseWriter, req *http.Request) {
	if err := r.services.Personnel.Delete(req.Context(), recordID(req)); err != nil {
		r.writeError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
