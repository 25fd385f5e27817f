package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemcatalog/pkg/errhttp"
	"github.com/ghuser/itemcatalog/pkg/httpx"
	appsvcs "github.com/ghuser/itemcatalog/services/item/application/services"
	"github.com/ghuser/itemcatalog/services/item/application/validation"
)

// PatchItemHandler handles PATCH /items/{id} requests.
type PatchItemHandler struct{ base }

func NewPatchItemHandler(svc *appsvcs.Services, errs *errhttp.Writer) *PatchItemHandler {
	return &PatchItemHandler{base{svc: svc, errs: errs}}
}

// Execute updates the fields present in the body.
//
//	@Summary		Update item
//	@Description	Partial update. At least one of name, description, price, category, stock is required; other keys are ignored.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int			true	"Item ID"
//	@Param			request	body		ItemRequest	true	"Fields to change"
//	@Success		200		{object}	httpx.Envelope{data=ItemResponse}
//	@Failure		400		{object}	httpx.Envelope{details=[]validator.FieldError}
//	@Failure		404		{object}	httpx.Envelope
//	@Failure		409		{object}	httpx.Envelope
//	@Router			/items/{id} [patch]
func (h *PatchItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ValidateID(chi.URLParam(r, "id"))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	body, err := readBody(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	patch, err := validation.ValidateUpdate(body)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	item, err := h.svc.Item.Patch(r.Context(), id, patch)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httpx.Success(w, http.StatusOK, toResponse(item), "Item updated successfully")
}
