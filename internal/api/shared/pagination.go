package shared

import (
	"net/http"
	"strconv"

	"github.com/taskfleet/taskfleet/internal/store"
)

// Pagination bounds for list endpoints.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// PageResponse is the wire shape of a paginated listing.
type PageResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// ParsePageRequest reads the page and size query parameters, clamping them
// to valid bounds. Missing or malformed values fall back to the defaults.
func ParsePageRequest(r *http.Request) store.PageRequest {
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v >= 1 {
		page = v
	}

	size := DefaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v >= 1 {
		size = v
		if size > MaxPageSize {
			size = MaxPageSize
		}
	}

	return store.PageRequest{Number: page, Size: size}
}

// NewPageResponse wraps a store page into the wire shape, computing the
// total page count from the request's page size.
func NewPageResponse[T any](page *store.Page[T], req store.PageRequest) PageResponse[T] {
	items := page.Items
	if items == nil {
		items = []T{}
	}

	pages := 0
	if req.Size > 0 {
		pages = (page.Total + req.Size - 1) / req.Size
	}

	return PageResponse[T]{
		Items: items,
		Total: page.Total,
		Page:  req.Number,
		Size:  req.Size,
		Pages: pages,
	}
}
