package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/eventreg/internal/services"
)

func StringToUint(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

// ParseID reads a positive numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := StringToUint(c.Param(name))
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// OptionalUintQuery returns nil when the parameter is absent.
func OptionalUintQuery(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := StringToUint(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func ParsePage(c *gin.Context) (services.Page, map[string]string) {
	fields := map[string]string{}
	page := services.Page{Number: 1, Size: services.DefaultPageSize}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields["page"] = "Invalid page number."
		} else {
			page.Number = n
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields["page_size"] = "Invalid page size."
		} else {
			page.Size = n
		}
	}

	if len(fields) > 0 {
		return page, fields
	}
	return page, nil
}

// PageResponse is the list envelope shared by every paginated endpoint.
func PageResponse[T any](result services.PageResult[T], results any) gin.H {
	return gin.H{
		"count":       result.Total,
		"page":        result.Page.Number,
		"page_size":   result.Page.Size,
		"total_pages": result.TotalPages(),
		"results":     results,
	}
}
