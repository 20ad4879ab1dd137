// Package httpserver is a minimal HTTP/1.1 server over raw TCP sockets: one
// sequential accept loop, one goroutine per connection, one request/response
// pair per connection, Connection: close on every response.
package httpserver

import (
	"bytes"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/jwalitptl/encounter-api/pkg/logger"
	"github.com/jwalitptl/encounter-api/pkg/metrics"
)

// maxHeaderBytes caps how much a client can send before the header block
// terminates. Connections exceeding it are dropped without a response.
const maxHeaderBytes = 1 << 20

const readChunkSize = 4096

// Server accepts connections, parses requests and drives registered
// handlers.
type Server struct {
	router  router
	log     *logger.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter

	mu      sync.Mutex
	ln      net.Listener
	port    int
	running atomic.Bool
	conns   sync.WaitGroup
}

type Option func(*Server)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithRateLimit applies a token bucket across all incoming connections.
// Over-limit requests are answered with 429.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) { s.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

func NewServer(log *logger.Logger, opts ...Option) *Server {
	s := &Server{log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get registers a handler for GET requests on pattern. Patterns are either
// literal paths or templated ("/encounters/{id}").
func (s *Server) Get(pattern string, handler HandlerFunc) {
	s.router.add("GET", pattern, handler)
}

// Post registers a handler for POST requests on pattern.
func (s *Server) Post(pattern string, handler HandlerFunc) {
	s.router.add("POST", pattern, handler)
}

// Bind binds and listens without accepting yet, so callers can learn the
// bound address (port 0 picks a free one) before starting the loop.
func (s *Server) Bind(host string, port int) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("failed to listen on %s:%d: %w", host, port, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.mu.Unlock()
	s.running.Store(true)
	return nil
}

// Addr returns the bound address, empty before Bind.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Serve runs the accept loop until Stop. The loop itself is sequential; each
// accepted connection is handled on its own goroutine.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return fmt.Errorf("server is not bound")
	}

	for s.running.Load() {
		conn, err := ln.Accept()
		if err != nil {
			if !s.running.Load() {
				break
			}
			continue
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConn(conn)
		}()
	}

	s.conns.Wait()
	return nil
}

// ListenAndServe binds and serves. Blocking; returns only after Stop or a
// bind failure.
func (s *Server) ListenAndServe(host string, port int) error {
	if err := s.Bind(host, port); err != nil {
		return err
	}
	return s.Serve()
}

// Stop requests the accept loop to exit. A pending accept is unblocked by a
// best-effort loopback connection and by closing the listener. Idempotent.
func (s *Server) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}

	s.mu.Lock()
	ln := s.ln
	port := s.port
	s.mu.Unlock()

	if port > 0 {
		if conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), time.Second); err == nil {
			conn.Close()
		}
	}
	if ln != nil {
		ln.Close()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	start := time.Now()

	req, bodyStart, raw, ok := s.readHead(conn)
	if !ok {
		return
	}

	res := &Response{Status: 404}
	res.SetContent([]byte(`{"error":"Not Found"}`), "application/json")

	// The request must be consumed before any response is written; closing
	// with unread inbound bytes resets the connection and loses the reply.
	s.readBody(conn, req, raw, bodyStart)

	if s.limiter != nil && !s.limiter.Allow() {
		res.Status = 429
		res.SetContent([]byte(`{"error":"Too Many Requests"}`), "application/json")
		s.write(conn, res)
		return
	}

	pattern := s.dispatch(req, res)

	if res.ContentType == "" {
		res.ContentType = "text/plain"
	}
	s.write(conn, res)

	if s.metrics != nil {
		s.metrics.HTTPRequests.WithLabelValues(req.Method, pattern, strconv.Itoa(res.Status)).Inc()
		s.metrics.HTTPDuration.WithLabelValues(req.Method, pattern).Observe(time.Since(start).Seconds())
	}
}

// readHead reads until the end of the header block and parses the request
// line, query string and headers. It returns the raw bytes read so far and
// the index where the body starts.
func (s *Server) readHead(conn net.Conn) (*Request, int, []byte, bool) {
	var raw []byte
	buf := make([]byte, readChunkSize)

	headerEnd, termLen := -1, 0
	for headerEnd < 0 {
		n, err := conn.Read(buf)
		if n > 0 {
			raw = append(raw, buf[:n]...)
			headerEnd, termLen = findHeaderEnd(raw)
		}
		if err != nil && headerEnd < 0 {
			return nil, 0, nil, false
		}
		if headerEnd < 0 && len(raw) > maxHeaderBytes {
			return nil, 0, nil, false
		}
	}

	head := raw[:headerEnd]
	lines := strings.Split(string(head), "\n")
	requestLine := strings.TrimSuffix(lines[0], "\r")

	fields := strings.Fields(requestLine)
	if len(fields) < 2 {
		return nil, 0, nil, false
	}

	req := NewRequest()
	req.Method = fields[0]
	req.Path = fields[1]
	if q := strings.Index(req.Path, "?"); q >= 0 {
		req.parseQuery(req.Path[q+1:])
		req.Path = req.Path[:q]
	}

	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		req.SetHeader(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	return req, headerEnd + termLen, raw, true
}

// findHeaderEnd locates the earliest header terminator, CRLFCRLF or bare
// LFLF.
func findHeaderEnd(raw []byte) (int, int) {
	crlf := bytes.Index(raw, []byte("\r\n\r\n"))
	lf := bytes.Index(raw, []byte("\n\n"))
	switch {
	case crlf < 0 && lf < 0:
		return -1, 0
	case crlf < 0:
		return lf, 2
	case lf < 0 || crlf < lf:
		return crlf, 4
	default:
		return lf, 2
	}
}

// readBody collects exactly Content-Length body bytes, truncating anything
// beyond that length.
func (s *Server) readBody(conn net.Conn, req *Request, raw []byte, bodyStart int) {
	contentLength := 0
	if value, ok := req.Header("Content-Length"); ok {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			contentLength = parsed
		}
	}

	body := append([]byte(nil), raw[bodyStart:]...)
	buf := make([]byte, readChunkSize)
	for len(body) < contentLength {
		n, err := conn.Read(buf)
		if n > 0 {
			body = append(body, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	if len(body) > contentLength {
		body = body[:contentLength]
	}
	req.Body = body
}

func (s *Server) dispatch(req *Request, res *Response) string {
	defer func() {
		if r := recover(); r != nil {
			if s.log != nil {
				s.log.Error(fmt.Errorf("panic: %v", r), "handler panicked", map[string]interface{}{
					"method": req.Method,
					"path":   req.Path,
				})
			}
			res.Status = 500
			res.SetContent([]byte(`{"error":"Internal Server Error"}`), "application/json")
		}
	}()

	routes, supported := s.router.routesFor(req.Method)
	if !supported {
		res.Status = 405
		res.SetContent([]byte(`{"error":"Method Not Allowed"}`), "application/json")
		return "unsupported"
	}

	pattern, matched := s.router.dispatch(routes, req, res)
	if matched {
		return pattern
	}

	// Unmatched GETs keep the default 404; any other method is 405.
	if req.Method != "GET" {
		res.Status = 405
		res.SetContent([]byte(`{"error":"Method Not Allowed"}`), "application/json")
	}
	return "unmatched"
}

func (s *Server) write(conn net.Conn, res *Response) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", res.Status, reasonPhrase(res.Status))
	fmt.Fprintf(&b, "Content-Type: %s\r\n", res.ContentType)
	fmt.Fprintf(&b, "Content-Length: %d\r\n", len(res.Body))
	b.WriteString("Connection: close\r\n\r\n")
	b.Write(res.Body)
	conn.Write(b.Bytes())
}

func reasonPhrase(status int) string {
	switch status {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	default:
		return "OK"
	}
}
