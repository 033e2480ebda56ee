package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/permissions"
)

// RouterDeps holds everything the HTTP surface needs.
type RouterDeps struct {
	Import      *ImportHandler
	Tree        *TreeHandler
	Search      *SearchHandler
	Business    *BusinessHandler
	People      *PeopleHandler
	Permissions *PermissionsHandler
	Auth        *AdminAuth
	Assets      http.HandlerFunc // optional

	AllowedOrigins []string
	Log            *logger.Logger
}

// requestLogger logs one line per request through the structured logger.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", apiKeyHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log.With("component", "http")))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.New(corsOptions).Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tree", deps.Tree.Get)
		r.Get("/search", deps.Search.Search)
		r.Get("/search/trending", deps.Search.Trending)
		r.Get("/businesses/{id}", deps.Business.Get)
		r.Get("/people/{id}", deps.People.Get)
		r.With(deps.Auth.Middleware, RequirePermission(permissions.PersonDelete)).Delete("/people/{id}", deps.People.Delete)
		r.Get("/surnames", deps.People.Surnames)

		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.Auth.Middleware)
			r.Get("/me", deps.Permissions.Me)
			r.With(RequirePermission(permissions.PermissionList)).Get("/permissions", deps.Permissions.ListDefinedPermissions)
			r.With(RequirePermission(permissions.ImportRun)).Post("/import", deps.Import.Import)
			r.With(RequirePermission(permissions.ImportBugsView)).Get("/import/bugs/{name}", deps.Import.BugReport)
			r.With(RequirePermission(permissions.ImportRun)).Delete("/import/bugs/{name}", deps.Import.DeleteBugReport)
		})
	})

	if deps.Assets != nil {
		r.Get("/media/*", deps.Assets)
	}

	return r
}
