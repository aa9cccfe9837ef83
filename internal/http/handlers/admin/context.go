package admin

import (
	"strconv"
	"strings"

	"github.com/storepanel/internal/http/handlers/shared"
	"github.com/storepanel/internal/http/response"

	"github.com/gin-gonic/gin"
)

// getAdminID 获取当前登录管理员 ID
func getAdminID(c *gin.Context) (uint, bool) {
	return shared.GetContextUint(c, "admin_id")
}

// parseIDParam 解析路径中的数字 ID，非法时统一返回 400
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}

// parseUintQuery 解析查询参数中的数字，缺省或非法时返回 0
func parseUintQuery(c *gin.Context, name string) uint {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// parseBoolQuery 解析查询参数中的布尔值
func parseBoolQuery(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.DefaultQuery(name, "false"))
	if err != nil {
		return false
	}
	return v
}
