package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"ims/internal/domain"
)

const maxBody = 1 << 20

// query binds one optional form-style query parameter into dest, which must
// be a pointer to a pointer.
func query(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return badRequest(fmt.Sprintf("invalid query parameter %s", name))
	}
	return nil
}

// param pairs a query parameter name with its destination.
type param struct {
	name string
	dest any
}

// bindQuery binds params in order, stopping at the first failure.
func bindQuery(r *http.Request, params ...param) error {
	for _, p := range params {
		if err := query(r, p.name, p.dest); err != nil {
			return err
		}
	}
	return nil
}

func bindPage(r *http.Request) (domain.Page, error) {
	var page, limit *int
	if err := bindQuery(r, param{"page", &page}, param{"limit", &limit}); err != nil {
		return domain.Page{}, err
	}
	var p domain.Page
	if page != nil {
		p.Page = *page
	}
	if limit != nil {
		p.Limit = *limit
	}
	return p.Normalize(), nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, badRequest(fmt.Sprintf("path parameter %s must be an integer", name))
	}
	return v, nil
}
