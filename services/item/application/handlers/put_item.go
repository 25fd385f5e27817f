package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemcatalog/pkg/errhttp"
	"github.com/ghuser/itemcatalog/pkg/httpx"
	appsvcs "github.com/ghuser/itemcatalog/services/item/application/services"
	"github.com/ghuser/itemcatalog/services/item/application/validation"
)

// PutItemHandler handles PUT /items/{id} requests.
type PutItemHandler struct{ base }

func NewPutItemHandler(svc *appsvcs.Services, errs *errhttp.Writer) *PutItemHandler {
	return &PutItemHandler{base{svc: svc, errs: errs}}
}

// Execute replaces every mutable field of an item.
//
//	@Summary		Replace item
//	@Description	Full update; the body must carry every required field.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int			true	"Item ID"
//	@Param			request	body		ItemRequest	true	"Complete item"
//	@Success		200		{object}	httpx.Envelope{data=ItemResponse}
//	@Failure		400		{object}	httpx.Envelope{details=[]validator.FieldError}
//	@Failure		404		{object}	httpx.Envelope
//	@Failure		409		{object}	httpx.Envelope
//	@Router			/items/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
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

	fields, err := validation.ValidateReplace(body)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	item, err := h.svc.Item.Replace(r.Context(), id, fields)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httpx.Success(w, http.StatusOK, toResponse(item), "Item updated successfully")
}
