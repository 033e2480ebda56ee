package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/models"
)

func parseID(raw, name string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Newf(apperr.KindInvalid, "Invalid %s.", name)
	}
	return uint(id), nil
}

func pathID(r *http.Request, param string) (uint, error) {
	return parseID(chi.URLParam(r, param), param)
}

// optionalID reads a positive integer query parameter; absent means nil.
func optionalID(r *http.Request, name string) (*uint, error) {
	raw := r.URL.Query().Get(name)
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Newf(apperr.KindInvalid, "Invalid %s.", name)
	}
	return n, nil
}

func language(r *http.Request) (string, error) {
	switch lang := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang"))); lang {
	case "", models.LangEnglish:
		return models.LangEnglish, nil
	case models.LangGujarati:
		return lang, nil
	default:
		return "", apperr.Newf(apperr.KindInvalid, "Unsupported language '%s'.", lang)
	}
}
