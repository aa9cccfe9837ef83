package admin

import (
	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetStoreConfig 获取店铺配置（缺省项回落到默认值）
func (h *Handler) GetStoreConfig(c *gin.Context) {
	config, err := h.SettingService.GetStoreConfig()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch store config", err)
		return
	}

	response.Success(c, config)
}

// GetSettings 按 key 获取设置
func (h *Handler) GetSettings(c *gin.Context) {
	key := c.DefaultQuery("key", constants.SettingKeyStoreConfig)

	value, err := h.SettingService.GetByKey(key)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch settings", err)
		return
	}
	if value == nil {
		response.Success(c, gin.H{})
		return
	}

	response.Success(c, value)
}

// UpdateSettingsRequest 更新设置请求
type UpdateSettingsRequest struct {
	Key   string                 `json:"key" binding:"required"`
	Value map[string]interface{} `json:"value" binding:"required"`
}

// UpdateSettings 更新设置
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	value, err := h.SettingService.Update(req.Key, req.Value)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to save settings", err)
		return
	}

	response.Success(c, value)
}
