package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/km-arc/go-autowire/framework/http/validation"
)

// Response writes the framework's JSON envelopes:
//
//	{"data": ...}                     Success, Created
//	{"data": [...], "meta": {...}}    List
//	{"message": "..."}                errors
//	{"errors": {"field": ["..."]}}    validation failures
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// JSON writes data as-is with the given status.
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// ── Success ──────────────────────────────────────────────────────────────────

func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

func (res *Response) Created(v any) {
	res.JSON(http.StatusCreated, envelope{"data": v})
}

// Meta is attached to list responses.
type Meta struct {
	Count int `json:"count"`
	Total int `json:"total"`
}

// List sends a slice together with how many items matched out of how many
// were considered. A nil slice is sent as [].
//
//	res.List(matching, len(all))
func List[T any](res *Response, items []T, total int) {
	if items == nil {
		items = []T{}
	}
	res.JSON(http.StatusOK, envelope{"data": items, "meta": Meta{Count: len(items), Total: total}})
}

// ── Failures ─────────────────────────────────────────────────────────────────

func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

func (res *Response) BadRequest(message ...string) {
	res.Error(http.StatusBadRequest, first(message, "Bad request."))
}

func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, first(message, "Server Error."))
}

// ValidationError sends 422 with the error bag.
func (res *Response) ValidationError(errors *validation.Errors) {
	res.JSON(http.StatusUnprocessableEntity, errors)
}

// Fail picks the response for err: 422 for validation errors, 500 with the
// error text otherwise.
func (res *Response) Fail(err error) {
	var bag *validation.Errors
	if errors.As(err, &bag) {
		res.ValidationError(bag)
		return
	}
	res.ServerError(err.Error())
}

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
