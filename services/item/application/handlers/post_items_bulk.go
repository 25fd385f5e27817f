package handlers

import (
	"net/http"

	"github.com/ghuser/itemcatalog/pkg/errhttp"
	"github.com/ghuser/itemcatalog/pkg/httpx"
	appsvcs "github.com/ghuser/itemcatalog/services/item/application/services"
	"github.com/ghuser/itemcatalog/services/item/application/validation"
)

// PostItemsBulkHandler handles POST /items/bulk requests.
type PostItemsBulkHandler struct{ base }

func NewPostItemsBulkHandler(svc *appsvcs.Services, errs *errhttp.Writer) *PostItemsBulkHandler {
	return &PostItemsBulkHandler{base{svc: svc, errs: errs}}
}

// Execute creates up to 100 items atomically: either all are stored or none.
//
//	@Summary		Bulk create items
//	@Description	Creates every item in the batch or none of them.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		BulkItemRequest	true	"Items to create (1-100)"
//	@Success		201		{object}	httpx.Envelope{data=[]ItemResponse}
//	@Failure		400		{object}	httpx.Envelope{details=[]validator.FieldError}
//	@Failure		409		{object}	httpx.Envelope
//	@Failure		413		{object}	httpx.Envelope
//	@Router			/items/bulk [post]
func (h *PostItemsBulkHandler) Execute(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	batch, err := validation.ValidateBulk(body)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	items, err := h.svc.Item.BulkCreate(r.Context(), batch)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, httpx.Envelope{
		Success: true,
		Data:    toResponses(items),
		Count:   httpx.Count(len(items)),
		Message: "Items created successfully",
	})
}
