package app

import (
	"net/http"

	"github.com/km-arc/go-autowire/framework/container"
	gohttp "github.com/km-arc/go-autowire/framework/http"
	"github.com/km-arc/go-autowire/framework/http/validation"
	"github.com/km-arc/go-autowire/framework/routing"
)

// Routes registers the shop API. Services are resolved per request so the
// bindings made by auto-wiring decide what runs.
//
//	POST /api/orders?customer=1&total=1250
//	GET  /api/orders/last
func Routes(c *container.Container, contracts Contracts) func(r *routing.Router) {
	return func(r *routing.Router) {
		r.Post("/orders", func(w http.ResponseWriter, req *http.Request) {
			request, res := gohttp.NewRequest(req), gohttp.NewResponse(w)

			v := validation.Make(request.Queries(), validation.Rules{
				"customer": "required|integer",
				"total":    "required|integer|between:1,10000000",
			})
			if v.Fails() {
				res.ValidationError(v.Errors())
				return
			}
			customer, _ := request.Int("customer")
			total, _ := request.Int("total")

			svc := container.Resolve[IOrderService](c, container.Key(contracts.OrderService, ""))
			order, err := svc.Place(customer, total)
			if err != nil {
				res.NotFound(err.Error())
				return
			}
			res.Created(order)
		})

		r.Get("/orders/last", func(w http.ResponseWriter, _ *http.Request) {
			res := gohttp.NewResponse(w)
			cache := container.Resolve[ICache](c, container.Key(contracts.Cache, ""))
			id, ok := cache.Get("last-order")
			if !ok {
				res.NotFound("No orders yet.")
				return
			}
			res.Success(map[string]string{"id": id})
		})
	}
}
