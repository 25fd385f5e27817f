package handlers

import (
	"net/http"

	"github.com/ghuser/itemcatalog/pkg/errhttp"
	"github.com/ghuser/itemcatalog/pkg/httpx"
	appsvcs "github.com/ghuser/itemcatalog/services/item/application/services"
)

// GetCategoriesHandler handles GET /items/meta/categories requests.
type GetCategoriesHandler struct{ base }

func NewGetCategoriesHandler(svc *appsvcs.Services, errs *errhttp.Writer) *GetCategoriesHandler {
	return &GetCategoriesHandler{base{svc: svc, errs: errs}}
}

// Execute lists the distinct item categories.
//
//	@Summary	List categories
//	@Tags		items
//	@Produce	json
//	@Success	200	{object}	httpx.Envelope{data=[]string}
//	@Router		/items/meta/categories [get]
func (h *GetCategoriesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Item.Categories(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, httpx.Envelope{
		Success: true,
		Data:    cats,
		Count:   httpx.Count(len(cats)),
		Message: "Categories retrieved successfully",
	})
}
