package handlers

import (
	"net/http"

	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/services"
)

type PeopleHandler struct {
	People *services.PeopleService
	log    *logger.Logger
}

func NewPeopleHandler(people *services.PeopleService, log *logger.Logger) *PeopleHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PeopleHandler{People: people, log: log.With("component", "people_handler")}
}

func (h *PeopleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	lang, err := language(r)
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	view, err := h.People.Get(r.Context(), id, lang)
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *PeopleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	if err := h.People.Delete(r.Context(), id); err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	if principal, ok := PrincipalFrom(r.Context()); ok {
		h.log.Info("person deleted", "person_id", id, "admin", principal.Name)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Surnames handles GET /api/surnames.
func (h *PeopleHandler) Surnames(w http.ResponseWriter, r *http.Request) {
	surnames, err := h.People.Surnames(r.Context())
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"total_count": len(surnames), "data": surnames})
}
