package api

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemcatalog/pkg/app"
	"github.com/ghuser/itemcatalog/pkg/errhttp"
	"github.com/ghuser/itemcatalog/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemcatalog/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
func ItemRoutes(r chi.Router, a *app.Application) error {
	svcs, err := appsvcs.New(a)
	if err != nil {
		return fmt.Errorf("item routes: %w", err)
	}
	errs := errhttp.New(a.Logger, a.Config.IsDevelopment())

	r.Route("/items", func(r chi.Router) {
		r.Get("/", handlers.NewListItemsHandler(svcs, errs).Execute)
		r.Post("/", handlers.NewPostItemHandler(svcs, errs).Execute)
		r.Post("/bulk", handlers.NewPostItemsBulkHandler(svcs, errs).Execute)
		r.Get("/meta/categories", handlers.NewGetCategoriesHandler(svcs, errs).Execute)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.NewGetItemHandler(svcs, errs).Execute)
			r.Put("/", handlers.NewPutItemHandler(svcs, errs).Execute)
			r.Patch("/", handlers.NewPatchItemHandler(svcs, errs).Execute)
			r.Delete("/", handlers.NewDeleteItemHandler(svcs, errs).Execute)
		})
	})
	return nil
}
