package httpserver

import (
	"strings"
)

// Request is the parsed form of one HTTP request. Header names are stored
// lowercased; lookups are case-insensitive per protocol.
type Request struct {
	Method string
	Path   string
	// Matches holds route captures for templated patterns: index 0 is the
	// full path, index 1 the first captured segment.
	Matches []string
	Body    []byte

	headers map[string]string
	params  map[string]string
}

// NewRequest returns an empty request. The transport fills it while parsing;
// handler tests build requests with SetHeader and SetParam.
func NewRequest() *Request {
	return &Request{
		headers: make(map[string]string),
		params:  make(map[string]string),
	}
}

// Header returns the value for a header name, any casing.
func (r *Request) Header(name string) (string, bool) {
	value, ok := r.headers[strings.ToLower(name)]
	return value, ok
}

// Param returns the value for a query-string key. When a key repeats, the
// last occurrence wins.
func (r *Request) Param(name string) (string, bool) {
	value, ok := r.params[name]
	return value, ok
}

// SetHeader stores a header value under the lowercased name.
func (r *Request) SetHeader(name, value string) {
	r.headers[strings.ToLower(name)] = value
}

// SetParam stores a query parameter.
func (r *Request) SetParam(name, value string) {
	r.params[name] = value
}

// parseQuery fills params from a raw query string. Keys without '=' map to
// the empty string; repeated keys are overwritten left to right.
func (r *Request) parseQuery(query string) {
	for _, token := range strings.Split(query, "&") {
		if token == "" {
			continue
		}
		key, value, found := strings.Cut(token, "=")
		if !found {
			r.params[token] = ""
			continue
		}
		r.params[key] = value
	}
}

// Response accumulates the status and body a handler wants to send.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// SetContent sets the response body and content type.
func (r *Response) SetContent(body []byte, contentType string) {
	r.Body = body
	r.ContentType = contentType
}

// HandlerFunc handles one parsed request.
type HandlerFunc func(*Request, *Response)
