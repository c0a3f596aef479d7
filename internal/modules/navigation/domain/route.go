package domain

import (
	"strings"
)

// RouteName identifies a page for named navigation.
type RouteName string

// CatchAllPath matches every path no other route claims.
const CatchAllPath = "/*"

// Route maps a path pattern (segments prefixed with ':' are parameters) to a page component.
// A route with Redirect set renders nothing and sends the navigation elsewhere.
type Route struct {
	Path      string    `json:"path"`
	Name      RouteName `json:"name,omitempty"`
	Component string    `json:"component,omitempty"`
	// Props exposes path parameters to the component as named props.
	Props    bool     `json:"props,omitempty"`
	Aliases  []string `json:"aliases,omitempty"`
	Redirect string   `json:"redirect,omitempty"`
}

// ScrollPosition is where the page scrolls after navigation.
type ScrollPosition struct {
	Top int `json:"top"`
}

// Resolution is the outcome of resolving a path against a Table.
type Resolution struct {
	Name      RouteName `json:"name,omitempty"`
	Component string    `json:"component,omitempty"`
	// Path is the navigated path after redirects, without query or fragment.
	Path string `json:"path"`
	// Matched is the declared pattern of the route that rendered, aliases included.
	Matched        string            `json:"matched,omitempty"`
	Params         map[string]string `json:"params"`
	Props          map[string]string `json:"props,omitempty"`
	RedirectedFrom string            `json:"redirectedFrom,omitempty"`
	Scroll         ScrollPosition    `json:"scroll"`
}

// Found reports whether a route rendered the path.
func (r Resolution) Found() bool {
	return r.Matched != ""
}

type segment struct {
	literal string
	param   string
}

type pattern struct {
	routeIndex int
	source     string
	segments   []segment
	catchAll   bool
}

func (p pattern) static() bool {
	for _, seg := range p.segments {
		if seg.param != "" {
			return false
		}
	}
	return true
}

func compilePattern(routeIndex int, source string) pattern {
	compiled := pattern{routeIndex: routeIndex, source: source}
	if source == CatchAllPath {
		compiled.catchAll = true
		return compiled
	}
	for _, part := range splitSegments(source) {
		if strings.HasPrefix(part, ":") {
			compiled.segments = append(compiled.segments, segment{param: strings.TrimPrefix(part, ":")})
			continue
		}
		compiled.segments = append(compiled.segments, segment{literal: part})
	}
	return compiled
}

// match compares literal segments case-insensitively and captures parameters verbatim.
func (p pattern) match(parts []string) (map[string]string, bool) {
	params := map[string]string{}
	if p.catchAll {
		return params, true
	}
	if len(parts) != len(p.segments) {
		return nil, false
	}
	for i, seg := range p.segments {
		if seg.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			params[seg.param] = parts[i]
			continue
		}
		if !strings.EqualFold(seg.literal, parts[i]) {
			return nil, false
		}
	}
	return params, true
}

func splitSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
