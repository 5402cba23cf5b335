package fixtures

import (
	"io"
	"net/http"
	"sync"
)

// Request is a request observed by Router.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Router serves canned responses keyed by method and path. Each route holds a
// queue; the last response repeats once the queue is drained. Unknown routes
// answer 404 with a failed envelope. Router is safe for concurrent use.
type Router struct {
	mu       sync.Mutex
	routes   map[string][]Response
	requests []Request
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{routes: make(map[string][]Response)}
}

// Handle queues responses for method and path.
func (r *Router) Handle(method, path string, responses ...Response) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := method + " " + path
	r.routes[key] = append(r.routes[key], responses...)
	return r
}

// Requests returns the requests received so far.
func (r *Router) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Request(nil), r.requests...)
}

// Count returns how many requests hit method and path.
func (r *Router) Count(method, path string) int {
	n := 0
	for _, req := range r.Requests() {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)

	r.mu.Lock()
	r.requests = append(r.requests, Request{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Header: req.Header.Clone(),
		Body:   body,
	})
	resp := r.next(req.Method + " " + req.URL.Path)
	r.mu.Unlock()

	for k, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func (r *Router) next(key string) Response {
	queue, ok := r.routes[key]
	if !ok || len(queue) == 0 {
		return Failure(http.StatusNotFound, http.StatusNotFound, "route not found")
	}
	resp := queue[0]
	if len(queue) > 1 {
		r.routes[key] = queue[1:]
	}
	return resp
}
