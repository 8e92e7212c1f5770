package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
	// APIKey lets internal callers holding the shared key reach the route as the system user.
	APIKey      bool     `json:"api_key"`
}

// Allows reports whether role may call the route. An entry without roles admits any authenticated caller.
func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

// FindPermissions looks up a chi route pattern, ignoring a trailing slash and method case.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	return r.index[routeKey(method, path)]
}

func routeKey(method, path string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToUpper(method) + " " + path
}

func Get() *PermissionData {
	var permissions PermissionData

	if err := json.Unmarshal(permissionsData, &permissions); err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	permissions.index = make(map[string]Permission, len(permissions.Endpoints))

	for _, endpoint := range permissions.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, dup := permissions.index[key]; dup {
			log.Warn().Str("route", key).Msg("Duplicate permission entry, keeping the first")

			continue
		}

		permissions.index[key] = endpoint
	}

	log.Info().Int("endpoints", len(permissions.index)).Msg("Successfully loaded embedded permissions")

	return &permissions
}
