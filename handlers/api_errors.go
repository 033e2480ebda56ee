package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/logger"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

// StatusForKind maps an error kind to its HTTP status.
func StatusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindEmptyQuery, apperr.KindInvalid:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindImportBusy:
		return http.StatusConflict
	case apperr.KindDecode, apperr.KindDashboard:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError writes err using the envelope. Internal errors are logged
// and their detail is hidden from the client.
func WriteAppError(w http.ResponseWriter, log *logger.Logger, err error) {
	kind := apperr.KindOf(err)
	status := StatusForKind(kind)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		detail = "Internal server error."
	}
	WriteAPIError(w, status, string(kind), detail)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
