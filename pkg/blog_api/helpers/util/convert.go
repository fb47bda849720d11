package util

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/Solvit-Africa-Training-Center/Blog-API/pkg/blog_api/models"
)

// BuildPagination derives listing metadata from a total record count.
func BuildPagination(page, perPage, totalRecords int) models.Pagination {
	totalPages := int(math.Ceil(float64(totalRecords) / float64(perPage)))
	pagination := models.Pagination{
		CurrentPage:    page,
		RecordsPerPage: perPage,
		TotalPages:     totalPages,
		TotalRecords:   totalRecords,
	}
	if page < totalPages {
		next := page + 1
		pagination.Next = &next
	}
	if page > 1 {
		prev := page - 1
		pagination.Previous = &prev
	}
	return pagination
}

// SetPaginationHeaders mirrors the pagination block as response headers, with
// RFC 8288 Link relations for next/prev.
func SetPaginationHeaders(req *http.Request, setHeader func(string, string), p models.Pagination) {
	setHeader("X-Total-Count", fmt.Sprintf("%d", p.TotalRecords))
	setHeader("X-Total-Pages", fmt.Sprintf("%d", p.TotalPages))
	setHeader("X-Current-Page", fmt.Sprintf("%d", p.CurrentPage))
	setHeader("X-Per-Page", fmt.Sprintf("%d", p.RecordsPerPage))

	var links []string
	if p.Next != nil {
		links = append(links, fmt.Sprintf("<%s>; rel=\"next\"", pageURL(req, *p.Next, p.RecordsPerPage)))
	}
	if p.Previous != nil {
		links = append(links, fmt.Sprintf("<%s>; rel=\"prev\"", pageURL(req, *p.Previous, p.RecordsPerPage)))
	}
	if len(links) > 0 {
		setHeader("Link", strings.Join(links, ", "))
	}
}

func pageURL(req *http.Request, page, perPage int) string {
	u := *req.URL
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("perPage", fmt.Sprintf("%d", perPage))
	u.RawQuery = q.Encode()
	return u.String()
}
