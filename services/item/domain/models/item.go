package models

import "time"

// Bounds shared by validation, domain checks and storage schemas.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MaxCategoryLength    = 50
	MaxStock             = 2147483647
)

// Field names a mutable item attribute. The value is the external (JSON and
// column) name.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldPrice       Field = "price"
	FieldCategory    Field = "category"
	FieldStock       Field = "stock"
)

// MutableFields is the whitelist of fields a caller may write, in column order.
var MutableFields = []Field{FieldName, FieldDescription, FieldPrice, FieldCategory, FieldStock}

// Item is the single catalog aggregate.
type Item struct {
	ID          int64
	Name        string
	Description string
	Price       Price
	Category    string
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemFields carries every mutable field. Used by create and full update.
type ItemFields struct {
	Name        string
	Description string
	Price       Price
	Category    string
	Stock       int
}

// Equal reports whether every field of f and o matches.
func (f ItemFields) Equal(o ItemFields) bool {
	return f.Name == o.Name &&
		f.Description == o.Description &&
		f.Price.Equal(o.Price) &&
		f.Category == o.Category &&
		f.Stock == o.Stock
}

// ItemPatch carries the fields of a partial update; nil means untouched.
type ItemPatch struct {
	Name        *string
	Description *string
	Price       *Price
	Category    *string
	Stock       *int
}

// Now returns the current UTC time at the precision every store can hold.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NewItem builds a stored item from its fields with both timestamps set to now.
func NewItem(id int64, f ItemFields, now time.Time) *Item {
	return &Item{
		ID:          id,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Category:    f.Category,
		Stock:       f.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Fields returns the item's mutable fields.
func (i *Item) Fields() ItemFields {
	return ItemFields{
		Name:        i.Name,
		Description: i.Description,
		Price:       i.Price,
		Category:    i.Category,
		Stock:       i.Stock,
	}
}

// Replace overwrites every mutable field and refreshes UpdatedAt.
func (i *Item) Replace(f ItemFields, now time.Time) {
	i.Name = f.Name
	i.Description = f.Description
	i.Price = f.Price
	i.Category = f.Category
	i.Stock = f.Stock
	i.UpdatedAt = now
}

// Apply overwrites the fields present in p and refreshes UpdatedAt.
func (i *Item) Apply(p ItemPatch, now time.Time) {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.Price != nil {
		i.Price = *p.Price
	}
	if p.Category != nil {
		i.Category = *p.Category
	}
	if p.Stock != nil {
		i.Stock = *p.Stock
	}
	i.UpdatedAt = now
}

// Clone returns a copy that shares no state with i.
func (i *Item) Clone() *Item {
	c := *i
	return &c
}

// IsEmpty reports whether the patch touches no field.
func (p ItemPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields lists the fields present in the patch in MutableFields order.
func (p ItemPatch) Fields() []Field {
	var out []Field
	if p.Name != nil {
		out = append(out, FieldName)
	}
	if p.Description != nil {
		out = append(out, FieldDescription)
	}
	if p.Price != nil {
		out = append(out, FieldPrice)
	}
	if p.Category != nil {
		out = append(out, FieldCategory)
	}
	if p.Stock != nil {
		out = append(out, FieldStock)
	}
	return out
}

// Value returns the patch value for f as the type a store column takes.
func (p ItemPatch) Value(f Field) any {
	switch f {
	case FieldName:
		return *p.Name
	case FieldDescription:
		return *p.Description
	case FieldPrice:
		return *p.Price
	case FieldCategory:
		return *p.Category
	case FieldStock:
		return *p.Stock
	}
	return nil
}
