package permissions

// PermissionScope defines the context in which a permission applies
type PermissionScope string

const (
	ScopeGlobal PermissionScope = "global" // applies system-wide
)

// Permission keys checked by the HTTP layer
const (
	ImportRun      = "import.run"
	ImportBugsView = "import.bugs.view"
	PersonDelete   = "person.delete"
	PermissionList = "permission.list"
)

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string          `json:"key"`         // unique key, e.g., "import.run"
	Name        string          `json:"name"`        // friendly name, e.g., "Run Import"
	Description string          `json:"description"` // detailed description of what the permission allows
	Scope       PermissionScope `json:"scope"`
	SuperOnly   bool            `json:"super_admin_only"` // only granted to super-admins
}

// PermissionGroupDefinition groups related permissions
type PermissionGroupDefinition struct {
	Key         string                 `json:"key"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Permissions []PermissionDefinition `json:"permissions"`
}

// DefinedPermissionGroups holds all statically defined permission groups and their permissions
var DefinedPermissionGroups = []PermissionGroupDefinition{
	{
		Key:         "import",
		Name:        "Member Import",
		Description: "Permissions related to bulk member ingestion.",
		Permissions: []PermissionDefinition{
			{
				Key:         ImportRun,
				Name:        "Run Import",
				Description: "Allows uploading a family book workbook and importing its members.",
				Scope:       ScopeGlobal,
				SuperOnly:   true,
			},
			{
				Key:         ImportBugsView,
				Name:        "View Import Bug Reports",
				Description: "Allows downloading the bug report CSV of an import.",
				Scope:       ScopeGlobal,
			},
		},
	},
	{
		Key:         "person",
		Name:        "Member Management",
		Description: "Permissions related to managing community members.",
		Permissions: []PermissionDefinition{
			{
				Key:         PersonDelete,
				Name:        "Delete Member",
				Description: "Allows soft-deleting a member.",
				Scope:       ScopeGlobal,
			},
		},
	},
	{
		Key:         "permission",
		Name:        "Permissions",
		Description: "Permissions related to inspecting the permission model.",
		Permissions: []PermissionDefinition{
			{
				Key:         PermissionList,
				Name:        "List Permissions",
				Description: "Allows viewing the defined permissions.",
				Scope:       ScopeGlobal,
			},
		},
	},
}

var (
	allPermissionKeysMap map[string]PermissionDefinition
	allPermissionKeys    []string
)

func init() {
	allPermissionKeysMap = make(map[string]PermissionDefinition)
	for _, group := range DefinedPermissionGroups {
		for _, perm := range group.Permissions {
			allPermissionKeysMap[perm.Key] = perm
			allPermissionKeys = append(allPermissionKeys, perm.Key)
		}
	}
}

// GetAllPermissionKeys returns a slice of all unique permission string keys
func GetAllPermissionKeys() []string {
	keys := make([]string, len(allPermissionKeys))
	copy(keys, allPermissionKeys)
	return keys
}

// IsValidPermissionKey checks if a given permission key is defined
func IsValidPermissionKey(key string) bool {
	_, ok := allPermissionKeysMap[key]
	return ok
}

// GrantsFor returns the permission keys held by an admin or super-admin.
// Super-admins hold every permission; plain admins hold the rest.
func GrantsFor(isAdmin, isSuperAdmin bool) map[string]bool {
	grants := make(map[string]bool)
	if !isAdmin && !isSuperAdmin {
		return grants
	}
	for key, def := range allPermissionKeysMap {
		if def.SuperOnly && !isSuperAdmin {
			continue
		}
		grants[key] = true
	}
	return grants
}
