package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemcatalog/pkg/errhttp"
	"github.com/ghuser/itemcatalog/pkg/httpx"
	appsvcs "github.com/ghuser/itemcatalog/services/item/application/services"
	"github.com/ghuser/itemcatalog/services/item/application/validation"
)

// DeleteItemHandler handles DELETE /items/{id} requests.
type DeleteItemHandler struct{ base }

func NewDeleteItemHandler(svc *appsvcs.Services, errs *errhttp.Writer) *DeleteItemHandler {
	return &DeleteItemHandler{base{svc: svc, errs: errs}}
}

// Execute deletes an item and returns its last state.
//
//	@Summary	Delete item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		int	true	"Item ID"
//	@Success	200	{object}	httpx.Envelope{data=ItemResponse}
//	@Failure	400	{object}	httpx.Envelope{details=[]validator.FieldError}
//	@Failure	404	{object}	httpx.Envelope
//	@Failure	409	{object}	httpx.Envelope
//	@Router		/items/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ValidateID(chi.URLParam(r, "id"))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	item, err := h.svc.Item.Delete(r.Context(), id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httpx.Success(w, http.StatusOK, toResponse(item), "Item deleted successfully")
}
