package validation

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	pkgvalidator "github.com/ghuser/itemcatalog/pkg/validator"
	"github.com/ghuser/itemcatalog/services/item/domain/repositories"
)

var queryFieldOrder = []string{"limit", "offset", "page", "category", "search", "sortBy", "sortOrder"}

type queryInput struct {
	Limit     *int64  `json:"limit"     validate:"omitnil,min=1,max=100"`
	Offset    *int64  `json:"offset"    validate:"omitnil,min=0,max=2147483647"`
	Page      *int64  `json:"page"      validate:"omitnil,min=1,max=2147483647"`
	Category  *string `json:"category"  validate:"omitnil,min=1,max=50"`
	Search    *string `json:"search"    validate:"omitnil,min=1,max=100"`
	SortBy    *string `json:"sortBy"    validate:"omitnil,oneof=id name price category stock created_at updated_at"`
	SortOrder *string `json:"sortOrder" validate:"omitnil,oneof=ASC DESC"`
}

// ValidateQuery validates list query parameters and applies defaults.
// Unknown parameters are ignored. When page is given without offset,
// offset becomes (page-1)*limit, capped at repositories.MaxOffset.
func ValidateQuery(q url.Values) (repositories.ListOptions, error) {
	errs := newFieldErrors("", queryFieldOrder...)
	var in queryInput

	single := func(key string) (string, bool) {
		vals, ok := q[key]
		if !ok {
			return "", false
		}
		if len(vals) != 1 {
			errs.add(key, "Must be a single value")
			return "", false
		}
		return vals[0], true
	}
	integer := func(key string) *int64 {
		s, ok := single(key)
		if !ok {
			return nil
		}
		d, ok := decodeNumber(json.RawMessage(strconv.Quote(s)))
		switch {
		case !ok:
			errs.add(key, "Must be a number")
			return nil
		case magnitude(d) <= 0 && !d.IsInteger():
			errs.add(key, "Must be an integer")
			return nil
		}
		n := clampInt(d, 0, 2147483647)
		return &n
	}
	text := func(key string) *string {
		s, ok := single(key)
		if !ok {
			return nil
		}
		return &s
	}

	in.Limit = integer("limit")
	in.Offset = integer("offset")
	in.Page = integer("page")
	in.Category = text("category")
	in.Search = text("search")
	in.SortBy = text("sortBy")
	if order := text("sortOrder"); order != nil {
		upper := strings.ToUpper(*order)
		in.SortOrder = &upper
	}

	errs.merge(pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&in), nil))
	if !errs.empty() {
		return repositories.ListOptions{}, pkgvalidator.NewValidationError(MsgInvalidQuery, errs.list()...)
	}

	opts := repositories.DefaultListOptions()
	if in.Limit != nil {
		opts.Limit = int(*in.Limit)
	}
	switch {
	case in.Offset != nil:
		opts.Offset = int(*in.Offset)
	case in.Page != nil:
		opts.Offset = int(min((*in.Page-1)*int64(opts.Limit), repositories.MaxOffset))
	}
	if in.Category != nil {
		opts.Filter.Category = *in.Category
	}
	if in.Search != nil {
		opts.Filter.Search = *in.Search
	}
	if in.SortBy != nil {
		opts.SortBy = repositories.SortField(*in.SortBy)
	}
	if in.SortOrder != nil {
		opts.SortOrder = repositories.SortOrder(*in.SortOrder)
	}
	return opts, nil
}
