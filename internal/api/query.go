package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Paging bounds the page size clients may ask for.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

func (p Paging) parse(c *gin.Context) (types.PageRequest, error) {
	req := types.PageRequest{Page: 1, Limit: p.DefaultLimit}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return req, &service.ValidationError{Field: "page", Message: "must be a positive integer"}
		}
		req.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return req, &service.ValidationError{Field: "limit", Message: "must be a positive integer"}
		}
		req.Limit = n
	}
	if p.MaxLimit > 0 && req.Limit > p.MaxLimit {
		req.Limit = p.MaxLimit
	}
	return req, nil
}

// newPage wraps results in the listing envelope with absolute next and
// previous links that keep every other query parameter.
func newPage[T any](c *gin.Context, results []T, total int64, req types.PageRequest) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	page := types.Page[T]{Count: total, Results: results}
	if int64(req.Page*req.Limit) < total {
		next := pageURL(c, req.Page+1)
		page.Next = &next
	}
	if req.Page > 1 {
		prev := pageURL(c, req.Page-1)
		page.Previous = &prev
	}
	return page
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := c.Request.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}

	u := url.URL{Scheme: scheme, Host: c.Request.Host, Path: c.Request.URL.Path, RawQuery: q.Encode()}
	return u.String()
}

// queryBool accepts 1/true and 0/false. An absent parameter is false.
func queryBool(c *gin.Context, name string) (bool, error) {
	raw := strings.ToLower(strings.TrimSpace(c.Query(name)))
	switch raw {
	case "":
		return false, nil
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, &service.ValidationError{Field: name, Message: "must be 1, 0, true or false"}
}

// pathID parses the :name path parameter. A malformed id cannot name an
// existing row, so it is reported as not found.
func pathID(c *gin.Context, name, resource string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &service.NotFoundError{Resource: resource, ID: raw}
	}
	return id, nil
}

// fail attaches err for the error middleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}
