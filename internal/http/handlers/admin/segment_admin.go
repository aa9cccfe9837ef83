package admin

import (
	"errors"

	"github.com/storepanel/internal/http/response"
	"github.com/storepanel/internal/service"

	"github.com/gin-gonic/gin"
)

// ListSegments 客户分群列表
func (h *Handler) ListSegments(c *gin.Context) {
	segments, err := h.SegmentService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch segments", err)
		return
	}

	response.Success(c, segments)
}

// GetSegment 分群详情
func (h *Handler) GetSegment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	segment, err := h.SegmentService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "segment not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch segment", err)
		return
	}

	response.Success(c, segment)
}

// SegmentRequest 创建/更新分群请求
type SegmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Criteria    string `json:"criteria"`
}

// CreateSegment 创建分群
func (h *Handler) CreateSegment(c *gin.Context) {
	var req SegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	segment, err := h.SegmentService.Create(service.SegmentInput{
		Name:        req.Name,
		Description: req.Description,
		Criteria:    req.Criteria,
	})
	if err != nil {
		if errors.Is(err, service.ErrNameExists) {
			respondError(c, response.CodeConflict, "segment name already exists", nil)
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "invalid segment input", err)
			return
		}
		respondError(c, response.CodeInternal, "failed to create segment", err)
		return
	}

	response.Success(c, segment)
}

// UpdateSegment 更新分群
func (h *Handler) UpdateSegment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	segment, err := h.SegmentService.Update(id, service.SegmentInput{
		Name:        req.Name,
		Description: req.Description,
		Criteria:    req.Criteria,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "segment not found", nil)
			return
		}
		if errors.Is(err, service.ErrNameExists) {
			respondError(c, response.CodeConflict, "segment name already exists", nil)
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "invalid segment input", err)
			return
		}
		respondError(c, response.CodeInternal, "failed to update segment", err)
		return
	}

	response.Success(c, segment)
}

// DeleteSegment 删除分群（成员自动移出）
func (h *Handler) DeleteSegment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.SegmentService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "segment not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete segment", err)
		return
	}

	response.Success(c, nil)
}
