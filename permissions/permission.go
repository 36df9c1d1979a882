package permissions

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission maps a chi route pattern and method to the resource and action
// it exercises. Skip marks public routes; Self marks routes any
// authenticated caller may use on their own account.
type Permission struct {
	Path     string   `json:"path"`
	Method   string   `json:"method"`
	Resource Resource `json:"resource"`
	Action   Action   `json:"action"`
	Skip     bool     `json:"skip"`
	Self     bool     `json:"self"`
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`

	index map[string]Permission
}

func routeKey(method, path string) string {
	return method + " " + strings.TrimSuffix(path, "/")
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]Permission, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, dup := r.index[key]; dup {
			log.Warn().Str("route", key).Msg("duplicate permission entry, keeping the first")

			continue
		}

		r.index[key] = endpoint
	}
}

// FindPermissions looks up a route pattern. Trailing slashes are ignored, so
// "/api/hostels/" and "/api/hostels" are the same route.
func (r *PermissionData) FindPermissions(path, method string) (Permission, bool) {
	if r.index == nil {
		r.buildIndex()
	}

	permission, ok := r.index[routeKey(method, path)]

	return permission, ok
}

// Authorize reports whether role may call the endpoint. Routes without an
// entry are denied.
func (r *PermissionData) Authorize(role Role, path, method string) bool {
	permission, ok := r.FindPermissions(path, method)

	switch {
	case !ok:
		return false
	case permission.Skip:
		return true
	case permission.Self:
		return isKnown(role)
	default:
		return Allowed(role, permission.Resource, permission.Action)
	}
}

var (
	loaded     *PermissionData
	loadedOnce sync.Once
)

// Get decodes the embedded route table once. It returns nil when the table
// is malformed; the RBAC middleware then denies every protected route.
func Get() *PermissionData {
	loadedOnce.Do(func() {
		var data PermissionData

		if err := json.Unmarshal(permissionsData, &data); err != nil {
			log.Error().Err(err).Msg("Failed to decode embedded permissions")

			return
		}

		data.buildIndex()
		loaded = &data

		log.Info().Int("endpoints", len(data.Endpoints)).Msg("Loaded embedded permissions")
	})

	return loaded
}
