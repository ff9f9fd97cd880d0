package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/sangkips/stockpilot-api/pkg/pagination"
)

// GetPagination reads page and per_page from the query string
func GetPagination(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(pagination.DefaultPerPage)))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}

// GetDateRange reads from and to as YYYY-MM-DD or RFC 3339 dates
func GetDateRange(c *gin.Context) (service.DateRange, error) {
	var r service.DateRange
	from, err := parseDate(c.Query("from"))
	if err != nil {
		return r, apperror.NewFieldError("from", "must be a date (YYYY-MM-DD)")
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		return r, apperror.NewFieldError("to", "must be a date (YYYY-MM-DD)")
	}
	if from != nil && to != nil && to.Before(*from) {
		return r, apperror.NewFieldError("to", "must not be before from")
	}
	r.From, r.To = from, to
	return r, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
