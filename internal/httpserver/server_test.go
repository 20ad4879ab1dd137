package httpserver

import (
	"bytes"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, configure func(*Server)) *Server {
	t.Helper()
	srv := NewServer(nil)
	if configure != nil {
		configure(srv)
	}
	require.NoError(t, srv.Bind("127.0.0.1", 0))
	go srv.Serve()
	t.Cleanup(srv.Stop)
	return srv
}

// rawExchange writes request bytes on a fresh connection and returns the
// full response. Every response closes the connection, so reading to EOF is
// enough.
func rawExchange(t *testing.T, addr, request string) string {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(request))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	response, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(response)
}

func TestServerRoutesGet(t *testing.T) {
	srv := startServer(t, func(s *Server) {
		s.Get("/health", func(req *Request, res *Response) {
			res.Status = 200
			res.SetContent([]byte(`{"status":"ok"}`), "application/json")
		})
	})

	response := rawExchange(t, srv.Addr(), "GET /health HTTP/1.1\r\nHost: test\r\n\r\n")
	assert.True(t, strings.HasPrefix(response, "HTTP/1.1 200 OK\r\n"))
	assert.Contains(t, response, "Content-Type: application/json\r\n")
	assert.Contains(t, response, "Connection: close\r\n")
	assert.True(t, strings.HasSuffix(response, `{"status":"ok"}`))
}

func TestServerBareLineFeedTerminator(t *testing.T) {
	srv := startServer(t, func(s *Server) {
		s.Get("/health", func(req *Request, res *Response) {
			res.Status = 200
			res.SetContent([]byte("ok"), "text/plain")
		})
	})

	response := rawExchange(t, srv.Addr(), "GET /health HTTP/1.1\nHost: test\n\n")
	assert.True(t, strings.HasPrefix(response, "HTTP/1.1 200 OK\r\n"))
}

func TestServerUnmatchedGetIs404(t *testing.T) {
	srv := startServer(t, nil)

	response := rawExchange(t, srv.Addr(), "GET /nowhere HTTP/1.1\r\n\r\n")
	assert.True(t, strings.HasPrefix(response, "HTTP/1.1 404 Not Found\r\n"))
	assert.True(t, strings.HasSuffix(response, `{"error":"Not Found"}`))
}

func TestServerUnmatchedPostIs405(t *testing.T) {
	srv := startServer(t, nil)

	response := rawExchange(t, srv.Addr(), "POST /nowhere HTTP/1.1\r\nContent-Length: 0\r\n\r\n")
	assert.True(t, strings.HasPrefix(response, "HTTP/1.1 405 Method Not Allowed\r\n"))
	assert.True(t, strings.HasSuffix(response, `{"error":"Method Not Allowed"}`))
}

func TestServerUnsupportedMethodIs405(t *testing.T) {
	srv := startServer(t, func(s *Server) {
		s.Get("/health", func(req *Request, res *Response) { res.Status = 200 })
	})

	response := rawExchange(t, srv.Addr(), "PUT /health HTTP/1.1\r\n\r\n")
	assert.True(t, strings.HasPrefix(response, "HTTP/1.1 405 Method Not Allowed\r\n"))
}

func TestServerQueryParams(t *testing.T) {
	var patient, limit string
	srv := startServer(t, func(s *Server) {
		s.Get("/encounters", func(req *Request, res *Response) {
			patient, _ = req.Param("patientId")
			limit, _ = req.Param("limit")
			res.Status = 200
		})
	})

	rawExchange(t, srv.Addr(), "GET /encounters?patientId=p1&patientId=p2&limit=10 HTTP/1.1\r\n\r\n")
	assert.Equal(t, "p2", patient)
	assert.Equal(t, "10", limit)
}

func TestServerBodyRespectsContentLength(t *testing.T) {
	var body []byte
	srv := startServer(t, func(s *Server) {
		s.Post("/echo", func(req *Request, res *Response) {
			body = req.Body
			res.Status = 200
		})
	})

	rawExchange(t, srv.Addr(), "POST /echo HTTP/1.1\r\nContent-Length: 5\r\n\r\nhelloEXTRA")
	assert.Equal(t, "hello", string(body))
}

func TestServerHeaderLookupIsCaseInsensitive(t *testing.T) {
	var key string
	srv := startServer(t, func(s *Server) {
		s.Get("/secure", func(req *Request, res *Response) {
			key, _ = req.Header("X-API-Key")
			res.Status = 200
		})
	})

	rawExchange(t, srv.Addr(), "GET /secure HTTP/1.1\r\nx-api-key: k1\r\n\r\n")
	assert.Equal(t, "k1", key)
}

func TestServerCapturesRouteParams(t *testing.T) {
	var matches []string
	srv := startServer(t, func(s *Server) {
		s.Get("/encounters/{id}", func(req *Request, res *Response) {
			matches = req.Matches
			res.Status = 200
		})
	})

	rawExchange(t, srv.Addr(), "GET /encounters/enc-99 HTTP/1.1\r\n\r\n")
	require.Len(t, matches, 2)
	assert.Equal(t, "enc-99", matches[1])
}

func TestServerDropsOversizedHeaderBlock(t *testing.T) {
	srv := startServer(t, func(s *Server) {
		s.Get("/health", func(req *Request, res *Response) { res.Status = 200 })
	})

	conn, err := net.DialTimeout("tcp", srv.Addr(), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("GET /health HTTP/1.1\r\n"))
	require.NoError(t, err)

	// Stream header bytes with no terminator until well past the cap. A
	// write error means the server already hung up, which is fine.
	chunk := bytes.Repeat([]byte("a"), readChunkSize)
	for written := 0; written < maxHeaderBytes+2*readChunkSize; written += len(chunk) {
		if _, err := conn.Write(chunk); err != nil {
			break
		}
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	n, err := conn.Read(buf)
	assert.Zero(t, n, "no response bytes expected")
	assert.Error(t, err)
}

func TestServerHandlerPanicIs500(t *testing.T) {
	srv := startServer(t, func(s *Server) {
		s.Get("/boom", func(req *Request, res *Response) {
			panic("boom")
		})
	})

	response := rawExchange(t, srv.Addr(), "GET /boom HTTP/1.1\r\n\r\n")
	assert.True(t, strings.HasPrefix(response, "HTTP/1.1 500 Internal Server Error\r\n"))
}

func TestServerRateLimit(t *testing.T) {
	srv := startServer(t, func(s *Server) {
		WithRateLimit(1, 1)(s)
		s.Get("/health", func(req *Request, res *Response) { res.Status = 200 })
	})

	first := rawExchange(t, srv.Addr(), "GET /health HTTP/1.1\r\n\r\n")
	second := rawExchange(t, srv.Addr(), "GET /health HTTP/1.1\r\n\r\n")
	assert.True(t, strings.HasPrefix(first, "HTTP/1.1 200 OK\r\n"))
	assert.True(t, strings.HasPrefix(second, "HTTP/1.1 429 Too Many Requests\r\n"))
}

func TestServerStopIsIdempotent(t *testing.T) {
	srv := NewServer(nil)
	require.NoError(t, srv.Bind("127.0.0.1", 0))

	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()

	srv.Stop()
	srv.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Stop")
	}
}
