// Package http provides the request and response helpers the framework's
// JSON endpoints are written with.
//
//	func (h *handler) show(w http.ResponseWriter, r *http.Request) {
//	    req, res := gohttp.NewRequest(r), gohttp.NewResponse(w)
//	    entry, ok := h.find(req.RouteParam("contract"), req.Query("name"))
//	    if !ok {
//	        res.NotFound()
//	        return
//	    }
//	    res.Success(entry)
//	}
//
// Responses use the {"data": ...} and {"message": ...} envelopes; validation
// failures are sent as {"errors": {"field": ["message"]}} with status 422.
package http
