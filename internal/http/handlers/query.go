package handlers

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/view"
)

const dateLayout = "2006-01-02"

// parseDate accepts RFC3339 or a bare date. A bare date used as an upper
// bound covers the whole day.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func customerFilterFromQuery(q url.Values) (view.CustomerFilter, error) {
	return CustomerFilter{
		Search:  q.Get("search"),
		Status:  q.Get("status"),
		Company: q.Get("company"),
		Tags:    splitList(q["tags"]),
	}.toView(q.Get("date_from"), q.Get("date_to"), q.Get("revenue_min"), q.Get("revenue_max"))
}

func (f CustomerFilter) toView(dateFrom, dateTo, revenueMin, revenueMax string) (view.CustomerFilter, error) {
	out := view.CustomerFilter{
		Search:     f.Search,
		Status:     f.Status,
		Company:    f.Company,
		RevenueMin: f.RevenueMin,
		RevenueMax: f.RevenueMax,
		Tags:       f.Tags,
	}
	if out.Status != "" && out.Status != view.StatusAll && !models.CustomerStatus(out.Status).Valid() {
		return out, errors.New("invalid status filter")
	}

	var err error
	if dateFrom == "" {
		dateFrom = f.DateFrom
	}
	if dateTo == "" {
		dateTo = f.DateTo
	}
	if out.DateFrom, err = parseDate(dateFrom, false); err != nil {
		return out, errors.New("invalid date_from")
	}
	if out.DateTo, err = parseDate(dateTo, true); err != nil {
		return out, errors.New("invalid date_to")
	}
	if revenueMin != "" {
		if out.RevenueMin, err = parseFloatPtr(revenueMin); err != nil {
			return out, errors.New("invalid revenue_min")
		}
	}
	if revenueMax != "" {
		if out.RevenueMax, err = parseFloatPtr(revenueMax); err != nil {
			return out, errors.New("invalid revenue_max")
		}
	}
	return out, nil
}

func productFilterFromQuery(q url.Values) (view.ProductFilter, error) {
	f := view.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Brands:   splitList(q["brands"]),
	}
	var err error
	if f.PriceMin, err = parseFloatPtr(q.Get("price_min")); err != nil {
		return f, errors.New("invalid price_min")
	}
	if f.PriceMax, err = parseFloatPtr(q.Get("price_max")); err != nil {
		return f, errors.New("invalid price_max")
	}
	if s := q.Get("rating"); s != "" {
		if f.MinRating, err = strconv.ParseFloat(s, 64); err != nil {
			return f, errors.New("invalid rating")
		}
	}
	if s := q.Get("in_stock"); s != "" {
		if f.InStockOnly, err = strconv.ParseBool(s); err != nil {
			return f, errors.New("invalid in_stock")
		}
	}
	return f, nil
}

func sortFromQuery[T any](q url.Values, cmps view.Comparators[T]) (view.SortState, error) {
	field := strings.TrimSpace(q.Get("sort"))
	if field != "" && !cmps.Has(field) {
		return view.SortState{}, errors.New("invalid sort field")
	}
	return view.SortState{Field: field, Order: view.ParseOrder(q.Get("order"))}, nil
}

// pageQuery builds the paged view of records. A view_key that no longer
// matches the filter, sort or filtered rows sends the client back to page 1.
func pageQuery[T view.Record](q url.Values, records []T, query view.Query[T], sort view.SortState, cmps view.Comparators[T]) (view.Page[T], string, error) {
	page, err := parseIntOr(q.Get("page"), 1)
	if err != nil {
		return view.Page[T]{}, "", errors.New("invalid page")
	}
	size, err := parseIntOr(q.Get("page_size"), view.DefaultPageSize)
	if err != nil {
		return view.Page[T]{}, "", errors.New("invalid page_size")
	}

	st := view.NewState(cmps, size)
	st.SetRecords(records)
	st.SetQuery(query)
	st.SetSort(sort)
	key := view.Key(query, sort, st.FilteredIDs())
	st.SetPage(view.ResolvePage(page, q.Get("view_key"), key))
	return st.Page(), key, nil
}

func listMeta[T any](p view.Page[T], key string) ListMeta {
	return ListMeta{
		TotalCount: p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		PageCount:  p.PageCount,
		ViewKey:    key,
	}
}
