// Package validation turns untrusted request input into normalized item
// values. Every function reports all violated fields at once.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgvalidator "github.com/ghuser/itemcatalog/pkg/validator"
	"github.com/ghuser/itemcatalog/services/item/domain/models"
)

// Envelope messages for each rejected input kind.
const (
	MsgInvalidBody     = "Invalid input data"
	MsgInvalidQuery    = "Invalid query parameters"
	MsgInvalidID       = "Invalid ID parameter"
	MsgNothingToUpdate = "At least one field must be provided for update"
)

// MaxBulkItems caps a bulk create request.
const MaxBulkItems = 100

var maxPrice = decimal.RequireFromString("9999999999.99")

var itemFieldOrder = []string{"name", "description", "price", "category", "stock"}

// itemInput is the decoded body before constraint checks. The tag-carrying
// variants below convert from it field for field.
type itemInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Stock       *int64
}

type createInput struct {
	Name        *string          `json:"name"        validate:"required,min=1,max=100"`
	Description *string          `json:"description" validate:"omitnil,max=500"`
	Price       *decimal.Decimal `json:"price"       validate:"required,gt=0,lte=9999999999.99"`
	Category    *string          `json:"category"    validate:"required,min=1,max=50"`
	Stock       *int64           `json:"stock"       validate:"required,gte=0,lte=2147483647"`
}

type updateInput struct {
	Name        *string          `json:"name"        validate:"omitnil,min=1,max=100"`
	Description *string          `json:"description" validate:"omitnil,max=500"`
	Price       *decimal.Decimal `json:"price"       validate:"omitnil,gt=0,lte=9999999999.99"`
	Category    *string          `json:"category"    validate:"omitnil,min=1,max=50"`
	Stock       *int64           `json:"stock"       validate:"omitnil,gte=0,lte=2147483647"`
}

var createMessages = pkgvalidator.Messages{
	"name.required":     "Name is required",
	"name.min":          "Name is required",
	"name.max":          "Name must not exceed 100 characters",
	"description.max":   "Description must not exceed 500 characters",
	"price.required":    "Price is required",
	"price.gt":          "Price must be a positive number",
	"price.lte":         "Price must not exceed 9999999999.99",
	"category.required": "Category is required",
	"category.min":      "Category is required",
	"category.max":      "Category must not exceed 50 characters",
	"stock.required":    "Stock is required",
	"stock.gte":         "Stock must be 0 or greater",
	"stock.lte":         "Stock must not exceed 2147483647",
}

var updateMessages = pkgvalidator.Messages{
	"name.min":        "Name cannot be empty",
	"name.max":        "Name must not exceed 100 characters",
	"description.max": "Description must not exceed 500 characters",
	"price.gt":        "Price must be a positive number",
	"price.lte":       "Price must not exceed 9999999999.99",
	"category.min":    "Category cannot be empty",
	"category.max":    "Category must not exceed 50 characters",
	"stock.gte":       "Stock must be 0 or greater",
	"stock.lte":       "Stock must not exceed 2147483647",
}

// ValidateCreate validates a create payload. description defaults to "".
func ValidateCreate(body []byte) (models.ItemFields, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return models.ItemFields{}, err
	}
	f, errs := checkCreate(raw, "")
	if errs != nil {
		return models.ItemFields{}, pkgvalidator.NewValidationError(MsgInvalidBody, errs...)
	}
	return f, nil
}

// ValidateReplace validates a full-update payload. It has the create schema.
func ValidateReplace(body []byte) (models.ItemFields, error) {
	return ValidateCreate(body)
}

// ValidateUpdate validates a partial-update payload. Unrecognized keys are
// ignored; a payload without any recognized key is rejected.
func ValidateUpdate(body []byte) (models.ItemPatch, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return models.ItemPatch{}, err
	}

	recognized := 0
	for _, f := range itemFieldOrder {
		if _, ok := raw[f]; ok {
			recognized++
		}
	}
	if recognized == 0 {
		return models.ItemPatch{}, pkgvalidator.NewValidationError(MsgInvalidBody,
			pkgvalidator.FieldError{Field: "body", Message: MsgNothingToUpdate})
	}

	in, errs := decodeItem(raw, "")
	upd := updateInput(in)
	errs.merge(pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&upd), updateMessages))
	if !errs.empty() {
		return models.ItemPatch{}, pkgvalidator.NewValidationError(MsgInvalidBody, errs.list()...)
	}

	var p models.ItemPatch
	p.Name = upd.Name
	p.Description = upd.Description
	p.Category = upd.Category
	if upd.Price != nil {
		price := models.NewPrice(*upd.Price)
		p.Price = &price
	}
	if upd.Stock != nil {
		stock := int(*upd.Stock)
		p.Stock = &stock
	}
	return p, nil
}

// ValidateBulk validates {"items": [...]} where every entry is a create
// payload. Field paths are reported as items.<index>.<field>.
func ValidateBulk(body []byte) ([]models.ItemFields, error) {
	raw, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	itemsRaw, ok := raw["items"]
	if !ok {
		return nil, pkgvalidator.NewValidationError(MsgInvalidBody,
			pkgvalidator.FieldError{Field: "items", Message: "Items is required"})
	}
	if isNull(itemsRaw) || json.Unmarshal(itemsRaw, &entries) != nil {
		return nil, pkgvalidator.NewValidationError(MsgInvalidBody,
			pkgvalidator.FieldError{Field: "items", Message: "Items must be an array"})
	}
	switch {
	case len(entries) == 0:
		return nil, pkgvalidator.NewValidationError(MsgInvalidBody,
			pkgvalidator.FieldError{Field: "items", Message: "Items must contain at least 1 item"})
	case len(entries) > MaxBulkItems:
		return nil, pkgvalidator.NewValidationError(MsgInvalidBody,
			pkgvalidator.FieldError{Field: "items", Message: fmt.Sprintf("Items must contain at most %d items", MaxBulkItems)})
	}

	out := make([]models.ItemFields, 0, len(entries))
	var all []pkgvalidator.FieldError
	for i, entry := range entries {
		prefix := fmt.Sprintf("items.%d.", i)
		var obj map[string]json.RawMessage
		if isNull(entry) || json.Unmarshal(entry, &obj) != nil {
			all = append(all, pkgvalidator.FieldError{Field: strings.TrimSuffix(prefix, "."), Message: "Item must be an object"})
			continue
		}
		f, errs := checkCreate(obj, prefix)
		if errs != nil {
			all = append(all, errs...)
			continue
		}
		out = append(out, f)
	}
	if len(all) > 0 {
		return nil, pkgvalidator.NewValidationError(MsgInvalidBody, all...)
	}
	return out, nil
}

// decodeObject parses body as a JSON object. An empty body is an empty object.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(body))
	raw, err := pkgvalidator.Decode[map[string]json.RawMessage](body)
	if err != nil || trimmed == "null" {
		if err != nil && !isTypeError(err) {
			return nil, err
		}
		return nil, pkgvalidator.NewValidationError(MsgInvalidBody,
			pkgvalidator.FieldError{Field: "body", Message: "Request body must be a JSON object"})
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	return raw, nil
}

func isTypeError(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

func checkCreate(raw map[string]json.RawMessage, prefix string) (models.ItemFields, []pkgvalidator.FieldError) {
	in, errs := decodeItem(raw, prefix)
	cr := createInput(in)
	errs.merge(pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&cr), createMessages))
	if !errs.empty() {
		return models.ItemFields{}, errs.list()
	}

	f := models.ItemFields{
		Name:     *cr.Name,
		Price:    models.NewPrice(*cr.Price),
		Category: *cr.Category,
		Stock:    int(*cr.Stock),
	}
	if cr.Description != nil {
		f.Description = *cr.Description
	}
	return f, nil
}

// decodeItem type-checks each recognized key. Fields that fail the type check
// are left nil and recorded in the returned errors.
func decodeItem(raw map[string]json.RawMessage, prefix string) (itemInput, *fieldErrors) {
	errs := newFieldErrors(prefix, itemFieldOrder...)
	var in itemInput

	str := func(key, label string) *string {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		s, ok := decodeString(v)
		if !ok {
			errs.add(key, label+" must be a string")
			return nil
		}
		return &s
	}
	in.Name = str("name", "Name")
	in.Description = str("description", "Description")
	in.Category = str("category", "Category")

	if v, ok := raw["price"]; ok {
		d, ok := decodeNumber(v)
		if !ok {
			errs.add("price", "Price must be a number")
		} else {
			switch magnitude(d) {
			case 1:
				if d.IsNegative() {
					d = decimal.NewFromInt(-1)
				} else {
					d = maxPrice.Add(decimal.NewFromInt(1))
				}
			case -1:
				d = decimal.Zero
			default:
				d = d.Round(models.PriceScale)
			}
			in.Price = &d
		}
	}

	if v, ok := raw["stock"]; ok {
		d, ok := decodeNumber(v)
		switch {
		case !ok:
			errs.add("stock", "Stock must be a number")
		case magnitude(d) <= 0 && !d.IsInteger():
			errs.add("stock", "Stock must be an integer")
		default:
			n := clampInt(d, 0, models.MaxStock)
			in.Stock = &n
		}
	}

	return in, errs
}
