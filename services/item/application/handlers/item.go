package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ghuser/itemcatalog/pkg/errhttp"
	appsvcs "github.com/ghuser/itemcatalog/services/item/application/services"
	"github.com/ghuser/itemcatalog/services/item/domain/models"
)

// ItemResponse is the JSON representation of an item.
type ItemResponse struct {
	ID          int64        `json:"id"          example:"1"`
	Name        string       `json:"name"        example:"Wireless Mouse"`
	Description string       `json:"description" example:"Ergonomic 2.4GHz mouse"`
	Price       models.Price `json:"price"       swaggertype:"number" example:"250000.00"`
	Category    string       `json:"category"    example:"accessories"`
	Stock       int          `json:"stock"       example:"20"`
	CreatedAt   time.Time    `json:"created_at"  example:"2024-01-15T10:30:00Z"`
	UpdatedAt   time.Time    `json:"updated_at"  example:"2024-01-15T10:30:00Z"`
} // @name ItemResponse

// ItemRequest documents the create and full-update body. Decoding goes through
// the validation package, which type-checks every field itself.
type ItemRequest struct {
	Name        string  `json:"name"        example:"Wireless Mouse"`
	Description string  `json:"description" example:"Ergonomic 2.4GHz mouse"`
	Price       float64 `json:"price"       example:"250000"`
	Category    string  `json:"category"    example:"accessories"`
	Stock       int     `json:"stock"       example:"20"`
} // @name ItemRequest

// BulkItemRequest documents the bulk create body.
type BulkItemRequest struct {
	Items []ItemRequest `json:"items"`
} // @name BulkItemRequest

func toResponse(it *models.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		Category:    it.Category,
		Stock:       it.Stock,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func toResponses(items []*models.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = toResponse(it)
	}
	return out
}

// base carries what every item handler needs.
type base struct {
	svc  *appsvcs.Services
	errs *errhttp.Writer
}

// readBody drains the request body. The router caps its size; exceeding the
// cap surfaces as *http.MaxBytesError.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
