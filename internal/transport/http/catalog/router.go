package catalog

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers the catalog routes. Mutations sit behind the admin
// gate; reads are public.
func NewRouter(h *Handler, mw *Middleware) *mux.Router {
	router := mux.NewRouter()
	router.Use(mw.LoggingMiddleware)

	router.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)
	router.HandleFunc("/brands/{id}", h.GetBrand).Methods(http.MethodGet)

	admin := router.NewRoute().Subrouter()
	admin.Use(mw.AdminMiddleware)
	admin.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	admin.HandleFunc("/products/batch-delete", h.BatchDeleteProducts).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id}", h.UpdateProduct).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)

	return router
}
