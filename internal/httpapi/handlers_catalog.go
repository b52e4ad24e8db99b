package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dwikikusuma/storefront/internal/apperr"
)

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	var (
		data any
		err  error
	)
	switch {
	case q != "":
		data, err = a.Catalog.SearchProducts(r.Context(), q)
	case category != "":
		data, err = a.Catalog.GetProductsByCategory(r.Context(), category)
	default:
		data, err = a.Catalog.GetAllProducts(r.Context())
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ok(w, data)
}

func (a *API) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := a.Catalog.GetCategories(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ok(w, cats)
}

func (a *API) productByID(w http.ResponseWriter, r *http.Request) {
	p, err := a.Catalog.GetProductByID(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ok(w, p)
}

func (a *API) productByBarcode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	p, err := a.Catalog.GetProductByBarcode(r.Context(), code)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if p == nil {
		a.fail(w, r, &notFound{what: "product with barcode " + code})
		return
	}
	ok(w, p)
}

type notFound struct{ what string }

func (e *notFound) Error() string        { return e.what + " not found" }
func (e *notFound) Is(target error) bool { return target == apperr.ErrNotFound }
