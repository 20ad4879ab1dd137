package httpserver

import (
	"strings"
)

// routes are evaluated in registration order; the first match wins. A literal
// pattern and a templated pattern over the same prefix ("/encounters" and
// "/encounters/{id}") never shadow each other because literals match by
// equality and templated patterns require every segment to line up.
type route struct {
	pattern   string
	templated bool
	segments  []segment
	handler   HandlerFunc
}

type segment struct {
	literal string
	capture bool
}

func newRoute(pattern string, handler HandlerFunc) route {
	r := route{
		pattern: pattern,
		handler: handler,
	}
	if !strings.Contains(pattern, "{") {
		return r
	}

	r.templated = true
	for _, part := range strings.Split(pattern, "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			r.segments = append(r.segments, segment{capture: true})
			continue
		}
		r.segments = append(r.segments, segment{literal: part})
	}
	return r
}

// match reports whether path satisfies the route. On success the returned
// slice holds the full path followed by each captured segment.
func (r *route) match(path string) ([]string, bool) {
	if !r.templated {
		if path == r.pattern {
			return []string{path}, true
		}
		return nil, false
	}

	parts := strings.Split(path, "/")
	if len(parts) != len(r.segments) {
		return nil, false
	}

	matches := []string{path}
	for i, seg := range r.segments {
		if seg.capture {
			if parts[i] == "" {
				return nil, false
			}
			matches = append(matches, parts[i])
			continue
		}
		if parts[i] != seg.literal {
			return nil, false
		}
	}
	return matches, true
}

// router tracks GET and POST routes separately.
type router struct {
	get  []route
	post []route
}

func (rt *router) add(method, pattern string, handler HandlerFunc) {
	switch method {
	case "GET":
		rt.get = append(rt.get, newRoute(pattern, handler))
	case "POST":
		rt.post = append(rt.post, newRoute(pattern, handler))
	}
}

func (rt *router) routesFor(method string) ([]route, bool) {
	switch method {
	case "GET":
		return rt.get, true
	case "POST":
		return rt.post, true
	default:
		return nil, false
	}
}

// dispatch runs the first matching handler and returns the matched pattern.
func (rt *router) dispatch(routes []route, req *Request, res *Response) (string, bool) {
	for i := range routes {
		matches, ok := routes[i].match(req.Path)
		if !ok {
			continue
		}
		req.Matches = matches
		routes[i].handler(req, res)
		return routes[i].pattern, true
	}
	return "", false
}
