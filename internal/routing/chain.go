package routing

import (
	"math"
	"strconv"
	"strings"

	"github.com/hemal8976/personal-webhook/internal/common/config"
	"github.com/hemal8976/personal-webhook/internal/common/errors"
)

// DefaultStatus is the terminal fallback for created tasks.
const DefaultStatus = "backlog"

// DefaultConfidenceThreshold is the terminal fallback for the extraction
// confidence threshold.
const DefaultConfidenceThreshold = 0.5

// Chain resolves effective per-destination values with route → global →
// built-in precedence. It holds the immutable global configuration and
// never reads ambient state.
type Chain struct {
	clickup    config.ClickUpConfig
	extraction config.ExtractionConfig
}

func NewChain(cfg *config.Config) *Chain {
	return &Chain{
		clickup:    cfg.ClickUp,
		extraction: cfg.Extraction,
	}
}

// Token resolves the ClickUp token for a route. A missing token is an
// error: the comment post is mandatory once a route matched, so there is
// no built-in default to fall back to.
func (c *Chain) Token(route *ResolvedRoute) (string, error) {
	if route != nil && route.Token != "" {
		return route.Token, nil
	}
	if c.clickup.Token != "" {
		return c.clickup.Token, nil
	}
	return "", errors.NewMissingCredentialError("ClickUp token")
}

// TaskListID resolves where created tasks go: the route's task-routing
// list, then the route's own list, then the global task list. When none
// resolves, task creation is skipped for the event (second return false).
func (c *Chain) TaskListID(route *ResolvedRoute) (string, bool) {
	if route != nil {
		if route.Tasks != nil && route.Tasks.ListID != "" {
			return route.Tasks.ListID, true
		}
		if route.ListID != "" {
			return route.ListID, true
		}
	}
	if c.clickup.TaskListID != "" {
		return c.clickup.TaskListID, true
	}
	return "", false
}

// Status resolves the status created tasks start in.
func (c *Chain) Status(route *ResolvedRoute) string {
	if route != nil && route.Tasks != nil && route.Tasks.DefaultStatus != "" {
		return route.Tasks.DefaultStatus
	}
	if c.clickup.DefaultStatus != "" {
		return c.clickup.DefaultStatus
	}
	return DefaultStatus
}

// Assignees resolves the assignee id list: the route's non-empty override,
// else the global comma-separated list, also accepting the legacy
// single-id variable. Only positive integers survive.
func (c *Chain) Assignees(route *ResolvedRoute) []int {
	if route != nil && route.Tasks != nil && len(route.Tasks.Assignees) > 0 {
		return filterPositive(route.Tasks.Assignees)
	}

	raw := c.clickup.Assignees
	if strings.TrimSpace(raw) == "" {
		raw = c.clickup.Assignee
	}

	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return filterPositive(ids)
}

func filterPositive(ids []int) []int {
	var out []int
	for _, id := range ids {
		if id > 0 {
			out = append(out, id)
		}
	}
	return out
}

// ConfidenceThreshold resolves the extraction confidence threshold: the
// route override when it is a finite number, else the global value, else
// the built-in default. The result is always clamped to [0, 1].
func (c *Chain) ConfidenceThreshold(route *ResolvedRoute) float64 {
	if route != nil && route.Tasks != nil && route.Tasks.ConfidenceThreshold != nil {
		v := *route.Tasks.ConfidenceThreshold
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return clamp01(v)
		}
	}

	raw := strings.TrimSpace(c.extraction.ConfidenceThreshold)
	if raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return clamp01(v)
		}
	}
	return DefaultConfidenceThreshold
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// TaskCreationEnabled resolves whether tasks are created for this route.
// Enabled by default; the global flag recognizes false/0/no/off in any
// case as disabled.
func (c *Chain) TaskCreationEnabled(route *ResolvedRoute) bool {
	if route != nil && route.Tasks != nil && route.Tasks.Enabled != nil {
		return *route.Tasks.Enabled
	}

	switch strings.ToLower(strings.TrimSpace(c.clickup.TaskCreation)) {
	case "false", "0", "no", "off":
		return false
	default:
		return true
	}
}
