package handlers

import (
	"net/http"
	"strconv"

	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/services"
)

type SearchHandler struct {
	Searches *services.SearchService
	log      *logger.Logger
}

func NewSearchHandler(search *services.SearchService, log *logger.Logger) *SearchHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SearchHandler{Searches: search, log: log.With("component", "search_handler")}
}

// Search handles GET /api/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := services.SearchQuery{Query: r.URL.Query().Get("q")}

	var err error
	if q.CategoryID, err = optionalID(r, "category"); err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	if q.SubCategoryID, err = optionalID(r, "subcategory"); err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	if q.VillageID, err = optionalID(r, "village"); err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	if q.PersonID, err = optionalID(r, "person_id"); err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	if q.Page, err = optionalInt(r, "page"); err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	if q.PageSize, err = optionalInt(r, "page_size"); err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	if raw := r.URL.Query().Get("dry_run"); raw != "" {
		q.DryRun, _ = strconv.ParseBool(raw)
	}

	page, err := h.Searches.Search(r.Context(), q)
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Trending handles GET /api/search/trending?village=&limit=.
func (h *SearchHandler) Trending(w http.ResponseWriter, r *http.Request) {
	villageID, err := optionalID(r, "village")
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	limit, err := optionalInt(r, "limit")
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}

	interests, err := h.Searches.Trending(r.Context(), villageID, limit)
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": interests})
}
