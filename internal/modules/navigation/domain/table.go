package domain

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// MaxRedirects bounds how many redirects a single resolution follows.
const MaxRedirects = 8

var (
	ErrUnknownRoute = errors.New("unknown route name")
	ErrMissingParam = errors.New("missing route parameter")
	ErrInvalidRoute = errors.New("invalid route definition")
)

// Table is an immutable, ordered set of routes. It is safe for concurrent use.
type Table struct {
	routes   []Route
	byName   map[RouteName]int
	static   []pattern
	dynamic  []pattern
	catchAll []pattern
}

// NewTable validates the routes and compiles their patterns. Static patterns win over
// parameterized ones, which win over the catch-all; ties go to declaration order.
func NewTable(routes []Route) (*Table, error) {
	table := &Table{
		routes: make([]Route, len(routes)),
		byName: make(map[RouteName]int, len(routes)),
	}
	copy(table.routes, routes)

	for i, route := range table.routes {
		if strings.TrimSpace(route.Path) == "" {
			return nil, fmt.Errorf("%w: route %d has no path", ErrInvalidRoute, i)
		}
		if route.Component == "" && route.Redirect == "" {
			return nil, fmt.Errorf("%w: %s needs a component or a redirect", ErrInvalidRoute, route.Path)
		}
		if route.Name != "" {
			if _, exists := table.byName[route.Name]; exists {
				return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidRoute, route.Name)
			}
			table.byName[route.Name] = i
		}
		table.routes[i].Aliases = append([]string(nil), route.Aliases...)

		for _, source := range append([]string{route.Path}, route.Aliases...) {
			compiled := compilePattern(i, source)
			switch {
			case compiled.catchAll:
				table.catchAll = append(table.catchAll, compiled)
			case compiled.static():
				table.static = append(table.static, compiled)
			default:
				table.dynamic = append(table.dynamic, compiled)
			}
		}
	}
	return table, nil
}

// Routes returns a copy of the declared routes in order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, route := range t.routes {
		out[i] = route
		out[i].Aliases = append([]string(nil), route.Aliases...)
	}
	return out
}

// Resolve maps a browser path to the route that renders it. Query strings and fragments are
// ignored. Redirects are followed up to MaxRedirects; RedirectedFrom holds the first path
// that redirected. A path no route claims yields a Resolution with Found() false.
func (t *Table) Resolve(rawPath string) Resolution {
	current := CleanPath(rawPath)
	redirectedFrom := ""

	for hops := 0; hops <= MaxRedirects; hops++ {
		matched, params, ok := t.match(current)
		if !ok {
			return Resolution{Path: current, Params: map[string]string{}, RedirectedFrom: redirectedFrom}
		}
		route := t.routes[matched.routeIndex]
		if route.Redirect != "" {
			if redirectedFrom == "" {
				redirectedFrom = current
			}
			current = CleanPath(expand(route.Redirect, params))
			continue
		}

		resolution := Resolution{
			Name:           route.Name,
			Component:      route.Component,
			Path:           current,
			Matched:        matched.source,
			Params:         params,
			RedirectedFrom: redirectedFrom,
			Scroll:         ScrollPosition{Top: 0},
		}
		if route.Props {
			resolution.Props = make(map[string]string, len(params))
			for key, value := range params {
				resolution.Props[key] = value
			}
		}
		return resolution
	}

	return Resolution{Path: current, Params: map[string]string{}, RedirectedFrom: redirectedFrom}
}

// URLFor builds the path of a named route. Every parameter of the route must be supplied.
func (t *Table) URLFor(name RouteName, params map[string]string) (string, error) {
	index, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}
	route := t.routes[index]
	if route.Path == CatchAllPath {
		return "/", nil
	}

	parts := splitSegments(route.Path)
	built := make([]string, 0, len(parts))
	for _, part := range parts {
		if !strings.HasPrefix(part, ":") {
			built = append(built, part)
			continue
		}
		key := strings.TrimPrefix(part, ":")
		value := strings.TrimSpace(params[key])
		if value == "" {
			return "", fmt.Errorf("%w: %s requires %q", ErrMissingParam, name, key)
		}
		built = append(built, url.PathEscape(value))
	}
	return "/" + strings.Join(built, "/"), nil
}

func (t *Table) match(current string) (pattern, map[string]string, bool) {
	parts := splitSegments(current)
	for _, group := range [][]pattern{t.static, t.dynamic, t.catchAll} {
		for _, candidate := range group {
			params, ok := candidate.match(parts)
			if !ok {
				continue
			}
			for key, value := range params {
				if unescaped, err := url.PathUnescape(value); err == nil {
					params[key] = unescaped
				}
			}
			return candidate, params, true
		}
	}
	return pattern{}, nil, false
}

// CleanPath drops the query and fragment, guarantees a leading slash and removes trailing
// and duplicate slashes. The empty path becomes "/".
func CleanPath(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if idx := strings.IndexAny(trimmed, "?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if trimmed == "" {
		return "/"
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return path.Clean(trimmed)
}

// expand substitutes :name segments of a redirect target with captured parameters.
func expand(target string, params map[string]string) string {
	if !strings.Contains(target, ":") {
		return target
	}
	parts := strings.Split(target, "/")
	for i, part := range parts {
		if !strings.HasPrefix(part, ":") {
			continue
		}
		if value, ok := params[strings.TrimPrefix(part, ":")]; ok {
			parts[i] = url.PathEscape(value)
		}
	}
	return strings.Join(parts, "/")
}
