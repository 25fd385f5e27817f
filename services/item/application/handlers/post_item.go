package handlers

import (
	"net/http"

	"github.com/ghuser/itemcatalog/pkg/errhttp"
	"github.com/ghuser/itemcatalog/pkg/httpx"
	appsvcs "github.com/ghuser/itemcatalog/services/item/application/services"
	"github.com/ghuser/itemcatalog/services/item/application/validation"
)

// PostItemHandler handles POST /items requests.
type PostItemHandler struct{ base }

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, errs *errhttp.Writer) *PostItemHandler {
	return &PostItemHandler{base{svc: svc, errs: errs}}
}

// Execute creates a new item.
//
//	@Summary		Create item
//	@Description	Creates a new item. description is optional and defaults to "".
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ItemRequest	true	"Item creation request"
//	@Success		201		{object}	httpx.Envelope{data=ItemResponse}
//	@Failure		400		{object}	httpx.Envelope{details=[]validator.FieldError}
//	@Failure		409		{object}	httpx.Envelope
//	@Failure		413		{object}	httpx.Envelope
//	@Router			/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	fields, err := validation.ValidateCreate(body)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	item, err := h.svc.Item.Create(r.Context(), fields)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httpx.Success(w, http.StatusCreated, toResponse(item), "Item created successfully")
}
