package admin

import (
	"github.com/storepanel/internal/provider"
)

// Handler 后台管理处理器，依赖由容器注入
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
