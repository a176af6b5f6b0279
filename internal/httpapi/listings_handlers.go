package httpapi

import (
	"net/http"

	"apprenticetrack-engine/internal/store"
)

type ListingsHandler struct {
	Store *store.ListingStore
}

// List returns every stored listing still open for applications, in
// append order.
func (h ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.AllActiveForDisplay(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if rows == nil {
		rows = []store.DisplayRow{}
	}
	writeJSON(w, rows)
}
