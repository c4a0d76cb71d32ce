package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/ledger"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
	"github.com/JamersonCarlos/beauty-salon-web/internal/wire"
)

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	req, err := wire.DecodeSaleRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed body: "+err.Error())
		return
	}

	e, err := h.sales.Record(r.Context(), req)
	if err != nil {
		mapSaleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.EncodeRecord(e.Record()))
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	f, err := wire.ParseFilterQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := h.sales.List(r.Context(), f)
	if err != nil {
		mapSaleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.EncodePage(*page))
}

func (h *Handler) cancelSale(w http.ResponseWriter, r *http.Request) {
	if err := h.sales.Cancel(r.Context(), r.PathValue("id")); err != nil {
		mapSaleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sales.Receipt(r.Context(), r.PathValue("id"))
	if err != nil {
		mapSaleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.EncodeReceipt(*rec))
}

// mapSaleError converts ledger errors to HTTP responses.
func mapSaleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid  *ledger.InvalidItemError
		notFound *ledger.ItemNotFoundError
	)
	switch {
	case errors.Is(err, ledger.ErrEmptyItems),
		errors.Is(err, ledger.ErrNoPaymentMethod),
		errors.Is(err, ledger.ErrNegativeDiscount),
		errors.Is(err, sale.ErrUnknownPaymentMethod),
		errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusUnprocessableEntity, notFound.Error())
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrAlreadyCancelled):
		writeError(w, http.StatusConflict, err.Error())
	default:
		internalError(w, r, err)
	}
}
