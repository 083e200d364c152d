package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
)

func parsePagination(c *gin.Context) pagination.Pagination {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		return pagination.Pagination{Page: 1}
	}
	return page
}

func parseIDParam(c *gin.Context, name string) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, ErrNotFound
	}
	return id, nil
}
