package handlers

import (
	"net/http"

	"github.com/ghuser/itemcatalog/pkg/errhttp"
	"github.com/ghuser/itemcatalog/pkg/httpx"
	appsvcs "github.com/ghuser/itemcatalog/services/item/application/services"
	"github.com/ghuser/itemcatalog/services/item/application/validation"
)

// ListItemsHandler handles GET /items requests.
type ListItemsHandler struct{ base }

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services, errs *errhttp.Writer) *ListItemsHandler {
	return &ListItemsHandler{base{svc: svc, errs: errs}}
}

// Execute lists items with filtering, sorting and pagination.
//
//	@Summary		List items
//	@Description	Returns one page of items. page is ignored when offset is given.
//	@Tags			items
//	@Produce		json
//	@Param			limit		query		int		false	"Page size (1-100)"	default(50)
//	@Param			offset		query		int		false	"Rows to skip"		default(0)
//	@Param			page		query		int		false	"1-based page number"
//	@Param			category	query		string	false	"Exact category match"
//	@Param			search		query		string	false	"Case-insensitive substring of name or description"
//	@Param			sortBy		query		string	false	"Sort field"	Enums(id, name, price, category, stock, created_at, updated_at)	default(created_at)
//	@Param			sortOrder	query		string	false	"Sort direction"	Enums(ASC, DESC)	default(DESC)
//	@Success		200			{object}	httpx.Envelope{data=[]ItemResponse,pagination=appsvcs.Pagination}
//	@Failure		400			{object}	httpx.Envelope{details=[]validator.FieldError}
//	@Router			/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	opts, err := validation.ValidateQuery(r.URL.Query())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	res, err := h.svc.Item.List(r.Context(), opts)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, httpx.Envelope{
		Success:    true,
		Data:       toResponses(res.Items),
		Pagination: res.Pagination,
		Message:    "Items retrieved successfully",
	})
}
