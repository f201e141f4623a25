package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/light-87/urmaliya-shri-sai-group-sub000/utils"
)

const defaultPageSize = 100

func idParam(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// dateRangeQuery parses optional from/to query parameters in the canonical
// date layout.
func dateRangeQuery(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			return nil, nil, errors.New("invalid from date")
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			return nil, nil, errors.New("invalid to date")
		}
		to = &t
	}
	return from, to, nil
}

func pageQuery(c *gin.Context) (offset int, limit int) {
	limit = defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return offset, limit
}
