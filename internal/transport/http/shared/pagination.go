package shared

import (
	"net/http"
	"strconv"
	"strings"

	"hrrecords/internal/domain/core"
)

type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit and offset from the query string. A missing limit
// takes def and a larger one is clamped to ceiling; malformed values are
// rejected.
func ParsePage(r *http.Request, def, ceiling int) (Page, error) {
	page := Page{Limit: def}
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Page{}, core.Invalid("limit", "must be a positive integer")
		}
		page.Limit = min(n, ceiling)
	}
	if raw := strings.TrimSpace(q.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Page{}, core.Invalid("offset", "must be zero or a positive integer")
		}
		page.Offset = n
	}
	return page, nil
}
