package admin

import (
	"github.com/storepanel/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetAuthzMe 当前管理员的角色与策略
func (h *Handler) GetAuthzMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch roles", err)
		return
	}
	policies, err := h.AuthzService.GetAdminPolicies(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch policies", err)
		return
	}

	isSuper := false
	if value, exists := c.Get("admin_is_super"); exists {
		if superValue, typeOK := value.(bool); typeOK {
			isSuper = superValue
		}
	}

	response.Success(c, gin.H{
		"admin_id": adminID,
		"is_super": isSuper,
		"roles":    roles,
		"policies": policies,
	})
}

// ListAuthzRoles 角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch roles", err)
		return
	}

	response.Success(c, gin.H{"roles": roles})
}

// GetAuthzRolePolicies 角色策略列表
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	policies, err := h.AuthzService.GetRolePolicies(c.Param("role"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "failed to fetch role policies", err)
		return
	}

	response.Success(c, gin.H{"policies": policies})
}

// GetAuthzAdminRoles 查询管理员角色
func (h *Handler) GetAuthzAdminRoles(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(id)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch admin roles", err)
		return
	}

	response.Success(c, gin.H{"admin_id": id, "roles": roles})
}

// SetAuthzAdminRolesRequest 设置管理员角色请求
type SetAuthzAdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// SetAuthzAdminRoles 覆盖式设置管理员角色
func (h *Handler) SetAuthzAdminRoles(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetAuthzAdminRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.AuthzService.SetAdminRoles(id, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "failed to set admin roles", err)
		return
	}

	requestLog(c).Infow("admin_roles_updated", "admin_id", id, "roles", req.Roles)
	response.Success(c, nil)
}
