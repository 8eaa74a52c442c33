package postgres

import (
	"strconv"
	"strings"

	"ims/internal/domain"
)

// where accumulates AND-ed conditions with positional arguments. Each
// condition uses ? for its single argument.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1))
}

func (w *where) raw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause.
func (w *where) page(p domain.Page) string {
	p = p.Normalize()
	w.args = append(w.args, p.Limit, p.Offset())
	n := len(w.args)
	return " LIMIT $" + strconv.Itoa(n-1) + " OFFSET $" + strconv.Itoa(n)
}

// eq adds "col = ?" when v is set.
func eq[T any](w *where, col string, v *T) {
	if v != nil {
		w.add(col+" = ?", *v)
	}
}

// search adds a case-insensitive substring match across cols.
func search(w *where, term *string, cols ...string) {
	if term == nil || *term == "" {
		return
	}
	w.args = append(w.args, "%"+escapeLike(*term)+"%")
	ph := "$" + strconv.Itoa(len(w.args))
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE " + ph
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func standardFilter(w *where, std *domain.Standard) {
	eq(w, "standard", std)
}
