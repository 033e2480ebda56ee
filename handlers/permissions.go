package handlers

import (
	"net/http"

	"github.com/camden-git/communitybackend/permissions"
)

type PermissionsHandler struct{}

func NewPermissionsHandler() *PermissionsHandler {
	return &PermissionsHandler{}
}

// ListDefinedPermissions serves the statically defined permission groups and their permissions.
func (h *PermissionsHandler) ListDefinedPermissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.DefinedPermissionGroups)
}

// Me serves the permissions held by the authenticated admin.
func (h *PermissionsHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFrom(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, "internal", "Admin not found in context.")
		return
	}
	keys := make([]string, 0, len(principal.Grants))
	for _, key := range permissions.GetAllPermissionKeys() {
		if principal.Grants[key] {
			keys = append(keys, key)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"person_id": principal.PersonID, "permissions": keys})
}
