// Package routing decides which ClickUp destination a meeting event maps to
// and resolves per-destination settings through the route → global →
// built-in fallback chain.
package routing

import (
	"encoding/json"
	"strings"

	"github.com/hemal8976/personal-webhook/internal/common/errors"
	"github.com/hemal8976/personal-webhook/internal/common/logger"
)

// DefaultRouteName is the name of the synthetic fallback route.
const DefaultRouteName = "default"

// Route is one configured destination: a keyword set mapped to a ClickUp
// list for comments, with optional overrides for task creation.
type Route struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	ListID   string   `json:"list_id"`
	Token    string   `json:"token,omitempty"`
	SpaceID  string   `json:"space_id,omitempty"`
	FolderID string   `json:"folder_id,omitempty"`

	Tasks *TaskRouting `json:"tasks,omitempty"`
}

// TaskRouting is the optional per-route task-creation block.
type TaskRouting struct {
	Enabled             *bool    `json:"enabled,omitempty"`
	ListID              string   `json:"list_id,omitempty"`
	SpaceID             string   `json:"space_id,omitempty"`
	FolderID            string   `json:"folder_id,omitempty"`
	DefaultStatus       string   `json:"default_status,omitempty"`
	Assignees           []int    `json:"assignees,omitempty"`
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty"`
}

// ResolvedRoute is the winning route plus the ordered subset of its
// keywords that matched the current event. The synthetic default route has
// an empty match set.
type ResolvedRoute struct {
	Route
	MatchedKeywords []string
}

// IsDefault reports whether this is the synthetic fallback route.
func (r *ResolvedRoute) IsDefault() bool {
	return r.Name == DefaultRouteName && len(r.Keywords) == 0
}

// ParseRoutes decodes the destination route table from a JSON array.
// A malformed array is logged and treated as empty, never fatal. Entries
// missing a name, a list id, or a usable keyword set are dropped with a
// log line and do not affect their siblings.
func ParseRoutes(raw string, log logger.Logger) []Route {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parsed []Route
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		stdErr := errors.NewRouteTableInvalidError(err.Error())
		log.Warn(stdErr.Message, map[string]interface{}{
			"error": stdErr.Details,
		})
		return nil
	}

	routes := make([]Route, 0, len(parsed))
	for i, route := range parsed {
		reason := ""
		switch {
		case strings.TrimSpace(route.Name) == "":
			reason = "missing name"
		case strings.TrimSpace(route.ListID) == "":
			reason = "missing list_id"
		default:
			route.Keywords = normalizeKeywords(route.Keywords)
			if len(route.Keywords) == 0 {
				reason = "no usable keywords"
			}
		}

		if reason != "" {
			log.Warn("Dropping invalid destination route", map[string]interface{}{
				"index":  i,
				"name":   route.Name,
				"reason": reason,
			})
			continue
		}
		routes = append(routes, route)
	}
	return routes
}

// normalizeKeywords lower-cases, trims, and drops empty keywords, keeping
// the configured order.
func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
