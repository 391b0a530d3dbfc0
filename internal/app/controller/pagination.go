package controller

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
)

var errInvalidPage = errors.New("invalid page")

// Paginator reads page/limit query params and wraps list results in the
// {"count", "next", "previous", "results"} envelope.
type Paginator struct {
	DefaultLimit int
	MaxLimit     int
}

func NewPaginator(cfg config.LimitsConfig) Paginator {
	p := Paginator{DefaultLimit: cfg.DefaultPageSize, MaxLimit: cfg.MaxPageSize}
	if p.DefaultLimit <= 0 {
		p.DefaultLimit = 6
	}
	if p.MaxLimit < p.DefaultLimit {
		p.MaxLimit = p.DefaultLimit
	}
	return p
}

type PageRequest struct {
	Page  int
	Limit int
}

// maxPage keeps page*limit within int32, so offsets never wrap around.
func (p Paginator) maxPage() int {
	return math.MaxInt32 / p.MaxLimit
}

func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

type PageResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func (p Paginator) Parse(c *gin.Context) (PageRequest, error) {
	req := PageRequest{Page: 1, Limit: p.DefaultLimit}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return req, errInvalidPage
		}
		req.Page = min(page, p.maxPage())
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return req, errInvalidPage
		}
		req.Limit = min(limit, p.MaxLimit)
	}
	return req, nil
}

// Respond writes one page of results.
func (p Paginator) Respond(c *gin.Context, req PageRequest, total int64, results interface{}) {
	resp := PageResponse{Count: total, Results: results}
	if int64(req.Page*req.Limit) < total {
		resp.Next = pageURL(c, req.Page+1)
	}
	if req.Page > 1 {
		resp.Previous = pageURL(c, req.Page-1)
	}
	c.JSON(http.StatusOK, resp)
}

func pageURL(c *gin.Context, page int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := c.Request.URL.Query()
	if page == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	s := u.String()
	return &s
}
