package handlers

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/importer"
	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/media"
)

const maxImportUploadBytes = 32 << 20

// MemberImporter runs one import of an uploaded file.
type MemberImporter interface {
	Import(ctx context.Context, filename string, data []byte) (*importer.Result, error)
}

type ImportHandler struct {
	Importer  MemberImporter
	Store     media.Store
	BugSubDir string
	log       *logger.Logger
}

func NewImportHandler(im MemberImporter, store media.Store, bugSubDir string, log *logger.Logger) *ImportHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ImportHandler{Importer: im, Store: store, BugSubDir: bugSubDir, log: log.With("component", "import_handler")}
}

// Import handles POST /api/admin/import with the workbook in the "file" form field.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportUploadBytes)
	if err := r.ParseMultipartForm(maxImportUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, string(apperr.KindInvalid), "Upload must be a multipart form with a 'file' field.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, string(apperr.KindInvalid), "Missing 'file' field.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteAppError(w, h.log, apperr.Wrap(err, apperr.KindInternal, "failed to read upload"))
		return
	}

	if principal, ok := PrincipalFrom(r.Context()); ok {
		h.log.Info("import requested", "admin", principal.Name, "file", header.Filename, "bytes", len(data))
	}

	result, err := h.Importer.Import(r.Context(), header.Filename, data)
	if err != nil {
		WriteAppError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// bugReportPath returns the store path of the bug report named in the URL.
func (h *ImportHandler) bugReportPath(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	name := chi.URLParam(r, "name")
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".csv") {
		WriteAPIError(w, http.StatusBadRequest, string(apperr.KindInvalid), "Invalid bug report name.")
		return "", "", false
	}
	return name, filepath.ToSlash(filepath.Join(h.BugSubDir, name)), true
}

// BugReport handles GET /api/admin/import/bugs/{name}.
func (h *ImportHandler) BugReport(w http.ResponseWriter, r *http.Request) {
	name, rel, ok := h.bugReportPath(w, r)
	if !ok {
		return
	}
	rc, info, err := h.Store.Get(rel)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, string(apperr.KindNotFound), "Bug report not found.")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Warn("bug report download interrupted", "path", rel, "error", err)
	}
}

// DeleteBugReport handles DELETE /api/admin/import/bugs/{name} once a report has been dealt with.
func (h *ImportHandler) DeleteBugReport(w http.ResponseWriter, r *http.Request) {
	_, rel, ok := h.bugReportPath(w, r)
	if !ok {
		return
	}
	rc, _, err := h.Store.Get(rel)
	if err != nil {
		WriteAPIError(w, http.StatusNotFound, string(apperr.KindNotFound), "Bug report not found.")
		return
	}
	rc.Close()

	if err := h.Store.Delete(rel); err != nil {
		WriteAppError(w, h.log, apperr.Wrap(err, apperr.KindInternal, "failed to delete bug report"))
		return
	}
	if principal, ok := PrincipalFrom(r.Context()); ok {
		h.log.Info("bug report deleted", "path", rel, "admin", principal.Name)
	}
	w.WriteHeader(http.StatusNoContent)
}
