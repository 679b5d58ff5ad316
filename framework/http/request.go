package http

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Request wraps *http.Request with the lookups the JSON endpoints need.
type Request struct {
	raw *http.Request
}

func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// Query returns a query-string value, or fallback when it is empty.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Queries returns the first value of every query-string key.
func (req *Request) Queries() map[string]string {
	out := make(map[string]string)
	for k, v := range req.raw.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// Filters returns the non-empty query values among keys. Other keys are
// ignored.
//
//	f := req.Filters("lifetime", "name") // ?lifetime=singleton&page=2 → {lifetime: singleton}
func (req *Request) Filters(keys ...string) map[string]string {
	q := req.raw.URL.Query()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			out[k] = v
		}
	}
	return out
}

// Has returns true if the query key is present and non-empty.
func (req *Request) Has(key string) bool {
	return req.Query(key) != ""
}

// Int parses a query value. ok is false when it is missing or not an int.
func (req *Request) Int(key string) (n int, ok bool) {
	n, err := strconv.Atoi(req.Query(key))
	return n, err == nil
}

// RouteParam returns a chi URL parameter.
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Wildcard returns the unescaped remainder matched by a trailing "/*".
// Canonical type names contain slashes, so they are routed this way.
func (req *Request) Wildcard() (string, error) {
	return url.PathUnescape(chi.URLParam(req.raw, "*"))
}
