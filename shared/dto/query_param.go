package dto

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"innkeep/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit, sort_by and sort_dir. Malformed values are ignored and limit is
// capped at constant.MaxValueLimit. withDefaults fills page and limit when the caller sent none.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	query := r.URL.Query()

	if page, ok := positiveInt(query.Get(constant.RequestParamPage)); ok {
		q.Page = page
	}

	if limit, ok := positiveInt(query.Get(constant.RequestParamLimit)); ok {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := query.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

func positiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)

	return n, err == nil && n > 0
}

// RestrictSort qualifies SortBy with table when it names one of the allowed
// columns and drops the ordering otherwise.
func (q *QueryParams) RestrictSort(table string, allowed ...string) {
	if !slices.Contains(allowed, q.SortBy) {
		q.SortBy = ""
		q.SortDir = ""

		return
	}

	q.SortBy = table + "." + q.SortBy

	if q.SortDir == "" {
		q.SortDir = SortDirAsc
	}
}
