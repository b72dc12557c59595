package shared

import (
	"net/http"
	"net/url"
	"strconv"
)

const TotalCountHeader = "X-Total-Count"

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination clamps limit to maxLimit when maxLimit is positive.
// Malformed or negative values fall back to the defaults.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	q := r.URL.Query()
	p := Pagination{
		Limit:  queryInt(q, "limit", defaultLimit, 1),
		Offset: queryInt(q, "offset", 0, 0),
	}
	if maxLimit > 0 {
		p.Limit = min(p.Limit, maxLimit)
	}
	return p
}

func queryInt(q url.Values, key string, fallback, floor int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil || n < floor {
		return fallback
	}
	return n
}

// QueryFlag reports whether key holds a true value such as "true" or "1".
func QueryFlag(r *http.Request, key string) bool {
	on, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && on
}

func SetCount(w http.ResponseWriter, header string, n int) {
	w.Header().Set(header, strconv.Itoa(n))
}
