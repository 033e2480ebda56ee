package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/media"
)

// AssetServer serves public media (profile images and thumbnails) under
// /media/<subDir>/... from the store root. Only the listed subdirectories are
// reachable, so bug reports stay behind the admin routes.
func AssetServer(baseStoragePath string, publicSubDirs []string, log *logger.Logger) (http.HandlerFunc, error) {
	if log == nil {
		log = logger.Nop()
	}
	base := filepath.Clean(baseStoragePath)
	allowed := make(map[string]string, len(publicSubDirs))
	for _, subDir := range publicSubDirs {
		full := filepath.Clean(filepath.Join(base, subDir))
		if full == base || !strings.HasPrefix(full, base+string(filepath.Separator)) {
			return nil, fmt.Errorf("asset subdirectory '%s' resolves outside base storage path '%s'", subDir, base)
		}
		allowed[filepath.ToSlash(filepath.Clean(subDir))] = full
		log.Info("serving assets", "prefix", media.URLPrefix+subDir, "dir", full)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := strings.TrimPrefix(r.URL.Path, media.URLPrefix)
		if relativePath == "" || strings.Contains(relativePath, "..") {
			WriteAPIError(w, http.StatusBadRequest, "invalid", "Invalid asset path.")
			return
		}

		subDir, rest, ok := strings.Cut(relativePath, "/")
		dir, known := allowed[subDir]
		if !ok || !known || rest == "" {
			http.NotFound(w, r)
			return
		}

		cleanedAssetPath := filepath.Clean(filepath.Join(dir, rest))
		if !strings.HasPrefix(cleanedAssetPath, dir+string(filepath.Separator)) {
			log.Warn("asset access outside designated directory", "request", r.URL.Path, "resolved", cleanedAssetPath)
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Forbidden.")
			return
		}

		info, err := os.Stat(cleanedAssetPath)
		if os.IsNotExist(err) || (err == nil && info.IsDir()) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			log.Error("error stating asset file", "path", cleanedAssetPath, "error", err)
			WriteAPIError(w, http.StatusInternalServerError, "internal", "Internal server error.")
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFile(w, r, cleanedAssetPath)
	}, nil
}
