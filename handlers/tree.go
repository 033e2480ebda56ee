package handlers

import (
	"net/http"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/services"
)

type TreeHandler struct {
	Trees *services.FamilyTreeService
	log   *logger.Logger
}

func NewTreeHandler(trees *services.FamilyTreeService, log *logger.Logger) *TreeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &TreeHandler{Trees: trees, log: log.With("component", "tree_handler")}
}

type treeResponse struct {
	TotalCount int                   `json:"total_count"`
	Data       []services.PersonView `json:"data"`
	Ancestors  []services.PersonView `json:"ancestors"`
}

// Get handles GET /api/tree?person_id=&lang=.
func (h *TreeHandler) Get(w http.ResponseWriter, r *http.Request) {
	personID, err := optionalID(r, "person_id")
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	if personID == nil {
		WriteAppError(w, h.log, apperr.New(apperr.KindInvalid, "person_id is required."))
		return
	}
	lang, err := language(r)
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}

	tree, err := h.Trees.Tree(r.Context(), *personID)
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}

	resp := treeResponse{
		TotalCount: len(tree.Members),
		Data:       make([]services.PersonView, 0, len(tree.Members)),
		Ancestors:  make([]services.PersonView, 0, len(tree.Ancestors)),
	}
	for i := range tree.Members {
		resp.Data = append(resp.Data, services.NewPersonView(&tree.Members[i], tree.Surname, lang))
	}
	for i := range tree.Ancestors {
		resp.Ancestors = append(resp.Ancestors, services.NewPersonView(&tree.Ancestors[i], tree.Surname, lang))
	}
	writeJSON(w, http.StatusOK, resp)
}
