package handlers

import (
	"net/http"

	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/services"
)

type BusinessHandler struct {
	Businesses *services.BusinessService
	log        *logger.Logger
}

func NewBusinessHandler(businesses *services.BusinessService, log *logger.Logger) *BusinessHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &BusinessHandler{Businesses: businesses, log: log.With("component", "business_handler")}
}

// Get handles GET /api/businesses/{id}; every hit counts as a view.
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	detail, err := h.Businesses.View(r.Context(), id)
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
