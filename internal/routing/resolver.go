package routing

import (
	"sort"
	"strings"

	"github.com/hemal8976/personal-webhook/internal/common/logger"
	"github.com/hemal8976/personal-webhook/internal/meeting"
)

// Resolver selects the best-matching destination route for an event.
type Resolver struct {
	routes      []Route
	defaultList string
	logger      logger.Logger
}

// NewResolver builds a resolver over a parsed route table. defaultList, when
// non-empty, is the comment target of the synthetic fallback route used for
// events no configured route matches.
func NewResolver(routes []Route, defaultList string, log logger.Logger) *Resolver {
	return &Resolver{
		routes:      routes,
		defaultList: defaultList,
		logger:      log,
	}
}

type scoredRoute struct {
	route   Route
	matched []string
	index   int
}

// Resolve scores every route by keyword overlap with the event's match
// fields and returns the winner, the synthetic default route when nothing
// scores, or no route at all when no default is configured.
//
// Keyword matching is case-insensitive and substring-based: a keyword
// counts when it appears inside any normalized match field. Ties on score
// are broken by configuration order, first route listed wins.
func (r *Resolver) Resolve(ev *meeting.Event) (*ResolvedRoute, bool) {
	fields := ev.MatchTexts()

	var candidates []scoredRoute
	for i, route := range r.routes {
		matched := matchKeywords(route.Keywords, fields)
		if len(matched) == 0 {
			continue
		}
		candidates = append(candidates, scoredRoute{route: route, matched: matched, index: i})
	}

	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			if len(candidates[i].matched) != len(candidates[j].matched) {
				return len(candidates[i].matched) > len(candidates[j].matched)
			}
			return candidates[i].index < candidates[j].index
		})

		winner := candidates[0]
		r.logger.Info("Resolved destination route", map[string]interface{}{
			"route":           winner.route.Name,
			"matchedKeywords": winner.matched,
			"candidates":      len(candidates),
		})
		return &ResolvedRoute{Route: winner.route, MatchedKeywords: winner.matched}, true
	}

	if r.defaultList != "" {
		r.logger.Info("No route matched, using default destination", map[string]interface{}{
			"listId": r.defaultList,
		})
		return &ResolvedRoute{
			Route: Route{Name: DefaultRouteName, ListID: r.defaultList},
		}, true
	}

	r.logger.Info("No route matched and no default destination configured", nil)
	return nil, false
}

func matchKeywords(keywords, fields []string) []string {
	var matched []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		for _, field := range fields {
			if strings.Contains(field, kw) {
				matched = append(matched, kw)
				break
			}
		}
	}
	return matched
}
