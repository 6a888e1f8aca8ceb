package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// NewRouter собирает HTTP-маршруты магазина. Каталог открыт без
// аутентификации, остальные маршруты требуют принципала, админские —
// роль admin.
func NewRouter(handler *Handler, authenticator domain.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", handler.ListProducts)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(authenticator))

			r.Get("/cart", handler.ListCart)
			r.Post("/cart", handler.AddCartLine)
			r.Delete("/cart", handler.ClearCart)
			r.Delete("/cart/{id}", handler.RemoveCartLine)

			r.Get("/user/addresses", handler.ListAddresses)
			r.Post("/user/addresses", handler.CreateAddress)
			r.Put("/user/addresses/{id}", handler.UpdateAddress)
			r.Delete("/user/addresses/{id}", handler.DeleteAddress)

			r.Get("/orders", handler.ListMyOrders)
			r.Post("/orders", handler.PlaceOrder)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)

				r.Get("/admin/users", handler.ListUsers)
				r.Delete("/admin/users/{id}", handler.DeleteUser)
				r.Get("/admin/orders", handler.ListAllOrders)
				r.Get("/admin/orders/{id}", handler.GetOrder)
				r.Put("/admin/orders/{id}", handler.UpdateOrder)
				r.Delete("/admin/orders/{id}", handler.DeleteOrder)
			})
		})
	})

	return r
}
