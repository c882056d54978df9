package httpapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/vibefinder/internal/http/dto"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, errs := dto.ParseSearchRequest(r.URL.Query())
	if len(errs) > 0 {
		h.writeJSON(w, http.StatusBadRequest, dto.FromValidationErrors(errs))
		return
	}

	resp, err := h.Searcher.SearchMusic(r.Context(), req.Query, req.Overrides())
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.Logger.Error("Search failed", "query", req.Query, "error", err)
		} else {
			h.Logger.Warn("Search rejected", "query", req.Query, "error", err)
		}
		h.writeJSON(w, status, dto.FromSearchError(err))
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, dto.FromProviderStatus(h.Searcher.Providers()))
}

func (h *Handler) ListSearches(w http.ResponseWriter, r *http.Request) {
	req, errs := dto.ParseHistoryRequest(r.URL.Query(), defaultHistoryLimit, maxHistoryLimit)
	if len(errs) > 0 {
		h.writeJSON(w, http.StatusBadRequest, dto.FromValidationErrors(errs))
		return
	}

	recs, err := h.History.ListRecentSearches(r.Context(), req.Limit)
	if err != nil {
		h.Logger.Error("Failed to list searches", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list searches"})
		return
	}
	h.writeJSON(w, http.StatusOK, dto.FromSearchRecords(recs))
}

func (h *Handler) GetSearch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.History.GetSearch(r.Context(), id)
	if err != nil {
		h.Logger.Error("Failed to load search", "search_id", id, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to load search"})
		return
	}
	if rec == nil {
		h.writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "search not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}
