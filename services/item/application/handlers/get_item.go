package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemcatalog/pkg/errhttp"
	"github.com/ghuser/itemcatalog/pkg/httpx"
	appsvcs "github.com/ghuser/itemcatalog/services/item/application/services"
	"github.com/ghuser/itemcatalog/services/item/application/validation"
)

// GetItemHandler handles GET /items/{id} requests.
type GetItemHandler struct{ base }

func NewGetItemHandler(svc *appsvcs.Services, errs *errhttp.Writer) *GetItemHandler {
	return &GetItemHandler{base{svc: svc, errs: errs}}
}

// Execute returns a single item.
//
//	@Summary	Get item
//	@Tags		items
//	@Produce	json
//	@Param		id	path		int	true	"Item ID"
//	@Success	200	{object}	httpx.Envelope{data=ItemResponse}
//	@Failure	400	{object}	httpx.Envelope{details=[]validator.FieldError}
//	@Failure	404	{object}	httpx.Envelope
//	@Router		/items/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ValidateID(chi.URLParam(r, "id"))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	item, err := h.svc.Item.Get(r.Context(), id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httpx.Success(w, http.StatusOK, toResponse(item), "Item retrieved successfully")
}
