package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/ghuser/itemcatalog/services/item/domain/models"
	"github.com/ghuser/itemcatalog/services/item/domain/repositories"
)

const itemColumns = "id, name, description, price, category, stock, created_at, updated_at"

// sortColumns maps every whitelisted sort field to its column. Caller input
// never reaches ORDER BY; an unmapped field falls back to created_at.
var sortColumns = map[repositories.SortField]string{
	repositories.SortByID:        "id",
	repositories.SortByName:      "name",
	repositories.SortByPrice:     "price",
	repositories.SortByCategory:  "category",
	repositories.SortByStock:     "stock",
	repositories.SortByCreatedAt: "created_at",
	repositories.SortByUpdatedAt: "updated_at",
}

// patchColumns maps patchable fields to columns.
var patchColumns = map[models.Field]string{
	models.FieldName:        "name",
	models.FieldDescription: "description",
	models.FieldPrice:       "price",
	models.FieldCategory:    "category",
	models.FieldStock:       "stock",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// buildWhere builds the WHERE clause for f, numbering placeholders from
// start. It returns an empty clause when f has no conditions.
func buildWhere(f repositories.Filter, start int) (string, []any) {
	var conditions []string
	var args []any
	idx := start

	if f.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", idx))
		args = append(args, f.Category)
		idx++
	}
	if f.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", idx, idx))
		args = append(args, "%"+escapeLike(f.Search)+"%")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// buildCountQuery returns the full count statement for f.
func buildCountQuery(f repositories.Filter) (string, []any) {
	where, args := buildWhere(f, 1)
	return joinParts("SELECT COUNT(*) FROM items", where), args
}

// buildListQuery returns the full select statement for opts after
// normalizing them. Ties on the sort column are broken by id.
func buildListQuery(opts repositories.ListOptions) (string, []any) {
	opts = opts.Normalize()
	where, args := buildWhere(opts.Filter, 1)

	col, ok := sortColumns[opts.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if opts.SortOrder == repositories.SortAsc {
		dir = "ASC"
	}
	order := fmt.Sprintf("ORDER BY %s %s", col, dir)
	if col != "id" {
		order += fmt.Sprintf(", id %s", dir)
	}

	idx := len(args) + 1
	page := fmt.Sprintf("LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, opts.Limit, opts.Offset)

	return joinParts("SELECT "+itemColumns+" FROM items", where, order, page), args
}

// buildPatchQuery returns an UPDATE that sets only the fields present in p
// plus updated_at. ok is false when p carries no field.
func buildPatchQuery(id int64, p models.ItemPatch, now time.Time) (query string, args []any, ok bool) {
	var sets []string
	idx := 1
	for _, f := range p.Fields() {
		col, known := patchColumns[f]
		if !known {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, p.Value(f))
		idx++
	}
	if len(sets) == 0 {
		return "", nil, false
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", idx))
	args = append(args, now)
	idx++
	args = append(args, id)

	query = fmt.Sprintf("UPDATE items SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), idx, itemColumns)
	return query, args, true
}

func joinParts(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
