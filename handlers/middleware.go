package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/camden-git/communitybackend/logger"
	"github.com/camden-git/communitybackend/permissions"
	"github.com/camden-git/communitybackend/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// PrincipalContextKey is the key used to store the authenticated admin in the request context.
	PrincipalContextKey ContextKey = "principal"

	apiKeyHeader = "X-API-Key"
)

// Principal is the authenticated caller of an admin route.
type Principal struct {
	PersonID uint   // zero for API key callers
	Name     string // display name for logs
	Grants   map[string]bool
}

func (p *Principal) Has(permission string) bool {
	return p != nil && p.Grants[permission]
}

// PrincipalFrom returns the admin stored by AdminAuth.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(*Principal)
	return p, ok && p != nil
}

// AdminAuth authenticates admin routes. A request carries either a bearer
// token signed with the JWT secret whose subject is an admin person, or an
// X-API-Key matching the configured bcrypt hash. API key callers hold every
// permission.
type AdminAuth struct {
	JWTSecret  []byte
	APIKeyHash string
	Persons    repository.PersonRepositoryInterface
	log        *logger.Logger
}

func NewAdminAuth(jwtSecret, apiKeyHash string, persons repository.PersonRepositoryInterface, log *logger.Logger) *AdminAuth {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminAuth{
		JWTSecret:  []byte(jwtSecret),
		APIKeyHash: apiKeyHash,
		Persons:    persons,
		log:        log.With("component", "admin_auth"),
	}
}

func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get(apiKeyHeader); key != "" {
			if !checkAPIKey(a.APIKeyHash, key) {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key.")
				return
			}
			principal := &Principal{Name: "api-key", Grants: permissions.GrantsFor(true, true)}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), PrincipalContextKey, principal)))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header required.")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header format must be Bearer {token}.")
			return
		}
		if len(a.JWTSecret) == 0 {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Token authentication is disabled.")
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token.")
			return
		}

		var personID uint
		if _, err := fmt.Sscan(claims.Subject, &personID); err != nil || personID == 0 {
			a.log.Warn("malformed token subject", "subject", claims.Subject)
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token subject.")
			return
		}

		person, err := a.Persons.GetByID(r.Context(), personID)
		if err != nil {
			// deleted after the token was issued
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Admin not found.")
			return
		}
		if !person.IsAdmin && !person.IsSuperAdmin {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Admin privileges required.")
			return
		}

		principal := &Principal{
			PersonID: person.ID,
			Name:     strings.TrimSpace(person.FirstName + " " + person.MiddleName),
			Grants:   permissions.GrantsFor(person.IsAdmin, person.IsSuperAdmin),
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), PrincipalContextKey, principal)))
	})
}

// RequirePermission rejects admins lacking the permission. It must run after AdminAuth.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				WriteAPIError(w, http.StatusInternalServerError, "internal", "Admin not found in context.")
				return
			}
			if !principal.Has(permission) {
				WriteAPIError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("Requires permission '%s'.", permission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
