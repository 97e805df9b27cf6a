package pagination

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Params holds list parameters extracted from query strings. Sort holds the
// resolved column name, never raw user input: FromRequest only accepts sort
// fields present in the caller's allow-list.
type Params struct {
	Page   int
	Limit  int
	Offset int
	Search string
	Sort   string
	Order  string
}

// FromRequest extracts page, limit, search, sort, and order from the request.
// sortable maps the permitted sort query values to their column names; an
// unknown sort field falls back to the empty string (caller default).
func FromRequest(r *http.Request, sortable map[string]string) Params {
	q := r.URL.Query()

	p := Params{
		Page:  defaultPage,
		Limit: defaultLimit,
		Order: "asc",
	}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= maxLimit {
		p.Limit = v
	}

	p.Search = strings.TrimSpace(q.Get("search"))

	if col, ok := sortable[q.Get("sort")]; ok {
		p.Sort = col
	}
	if strings.EqualFold(q.Get("order"), "desc") {
		p.Order = "desc"
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// Paging is the paging block attached to list responses.
type Paging struct {
	Start      int `json:"start"`
	End        int `json:"end"`
	TotalPage  int `json:"totalPage"`
	DataLength int `json:"dataLength"`
	NextPage   int `json:"nextPage"`
	PrevPage   int `json:"prevPage"`
}

// NewPaging computes the paging block for the given page, limit, and total
// row count.
func NewPaging(page, limit, dataLength int) Paging {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}

	totalPage := dataLength / limit
	if dataLength%limit > 0 {
		totalPage++
	}

	nextPage := page
	if page < totalPage {
		nextPage = page + 1
	}
	prevPage := page
	if page > 1 {
		prevPage = page - 1
	}

	return Paging{
		Start:      (page - 1) * limit,
		End:        page * limit,
		TotalPage:  totalPage,
		DataLength: dataLength,
		NextPage:   nextPage,
		PrevPage:   prevPage,
	}
}
