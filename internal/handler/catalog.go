package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/JamersonCarlos/beauty-salon-web/internal/wire"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		internalError(w, r, errors.Wrap(err, "list products"))
		return
	}
	writeJSON(w, http.StatusOK, wire.EncodeProducts(products))
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListServices(r.Context())
	if err != nil {
		internalError(w, r, errors.Wrap(err, "list services"))
		return
	}
	writeJSON(w, http.StatusOK, wire.EncodeServices(services))
}
