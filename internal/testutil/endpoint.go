package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Response is one scripted reply from an Endpoint.
type Response struct {
	Status int
	Body   []byte
}

// Endpoint is an httptest server replaying scripted responses in order.
// Once the script is exhausted the last response repeats.
type Endpoint struct {
	*httptest.Server

	mu        sync.Mutex
	responses []Response
	hits      int
}

// NewEndpoint starts a server that is closed when the test ends.
func NewEndpoint(t *testing.T, responses ...Response) *Endpoint {
	t.Helper()
	if len(responses) == 0 {
		t.Fatal("NewEndpoint: at least one response required")
	}

	e := &Endpoint{responses: responses}
	e.Server = httptest.NewServer(http.HandlerFunc(e.serve))
	t.Cleanup(e.Server.Close)
	return e
}

// Hits returns how many requests the endpoint has served.
func (e *Endpoint) Hits() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hits
}

func (e *Endpoint) serve(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	i := e.hits
	if i >= len(e.responses) {
		i = len(e.responses) - 1
	}
	resp := e.responses[i]
	e.hits++
	e.mu.Unlock()

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/csv; charset=ISO-8859-1")
	w.WriteHeader(status)
	w.Write(resp.Body)
}

// OK is a 200 response with body.
func OK(body []byte) Response {
	return Response{Status: http.StatusOK, Body: body}
}

// Status is an empty response with the given status code.
func Status(code int) Response {
	return Response{Status: code}
}
