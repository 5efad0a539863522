package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Pagination is the result of a windowed query: one page of rows plus the
// total count of all matching rows.
type Pagination struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

// PageParams extracts page and limit from the request query. Non-numeric,
// missing or non-positive values fall back to the defaults rather than failing.
func PageParams(ctx *gin.Context) (page, limit int) {
	page = defaultPage
	limit = defaultLimit
	if p, err := strconv.Atoi(ctx.Query("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(ctx.Query("limit")); err == nil && l > 0 && l <= maxLimit {
		limit = l
	}
	return page, limit
}

// Paginate runs the given query twice: once for the total count of matching
// rows and once for the requested window, scanning rows into dest. A page past
// the end yields an empty window with the correct totals, never an error.
// Callers apply their own filters, ordering and preloads on query beforehand.
func Paginate(query *gorm.DB, page, limit int, dest interface{}) (*Pagination, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	if err := query.Session(&gorm.Session{}).Offset(offset).Limit(limit).Find(dest).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &Pagination{
		Data:       dest,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}
