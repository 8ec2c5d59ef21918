package handlers

import (
	"net/http"
	"strings"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/view"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

// selectedIDs resolves a selection to customer ids. A select-all selection
// covers every customer matching its filter at the time of the request.
func selectedIDs(req SelectionRequest) ([]int, error) {
	if !req.All {
		return view.NewSelection(req.IDs...).IDs(), nil
	}
	f, err := req.Filter.toView("", "", "", "")
	if err != nil {
		return nil, err
	}
	matched, err := filteredCustomers(f, view.SortState{})
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(matched))
	for i, c := range matched {
		ids[i] = c.ID
	}
	sel := view.NewSelection()
	sel.SelectAll(ids)
	return sel.IDs(), nil
}

// BulkDeleteCustomersHandler godoc
// @Summary Delete selected customers
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param selection body SelectionRequest true "Ids, or all with a filter"
// @Success 200 {object} BulkResult
// @Failure 400 {string} string "Invalid input"
// @Router /customers/bulk/delete [post]
func BulkDeleteCustomersHandler(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	ids, err := selectedIDs(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(ids) == 0 {
		http.Error(w, "no customers selected", http.StatusBadRequest)
		return
	}

	n, err := customerRepo.DeleteMany(ids)
	if err != nil {
		logx.Error().Err(err).Ints("ids", ids).Msg("bulk delete failed")
		http.Error(w, "could not delete customers", http.StatusInternalServerError)
		return
	}
	logx.Info().Int("affected", n).Msg("customers deleted")
	respond(w, http.StatusOK, BulkResult{Affected: n})
}

// BulkStatusCustomersHandler godoc
// @Summary Change the status of selected customers
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param selection body BulkStatusRequest true "Selection and new status"
// @Success 200 {object} BulkResult
// @Failure 400 {string} string "Invalid input"
// @Router /customers/bulk/status [post]
func BulkStatusCustomersHandler(w http.ResponseWriter, r *http.Request) {
	var req BulkStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	status := models.CustomerStatus(strings.ToLower(req.Status))
	if !status.Valid() {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	ids, err := selectedIDs(req.SelectionRequest)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(ids) == 0 {
		http.Error(w, "no customers selected", http.StatusBadRequest)
		return
	}

	n, err := customerRepo.SetStatus(ids, status)
	if err != nil {
		logx.Error().Err(err).Ints("ids", ids).Msg("bulk status change failed")
		http.Error(w, "could not update customers", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, BulkResult{Affected: n})
}
