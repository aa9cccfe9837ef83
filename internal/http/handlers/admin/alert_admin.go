package admin

import (
	"errors"
	"strconv"

	"github.com/storepanel/internal/http/handlers/shared"
	"github.com/storepanel/internal/http/response"
	"github.com/storepanel/internal/repository"
	"github.com/storepanel/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAlerts 告警列表
func (h *Handler) ListAlerts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	alerts, total, err := h.AlertService.List(repository.AlertListFilter{
		Page:       page,
		PageSize:   pageSize,
		Type:       c.Query("type"),
		Severity:   c.Query("severity"),
		OnlyUnread: parseBoolQuery(c, "only_unread"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch alerts", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, alerts, pagination)
}

// GetUnreadAlertCount 未读告警数量
func (h *Handler) GetUnreadAlertCount(c *gin.Context) {
	count, err := h.AlertService.CountUnread()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to count unread alerts", err)
		return
	}

	response.Success(c, gin.H{"unread": count})
}

// MarkAlertRead 标记告警已读
func (h *Handler) MarkAlertRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.AlertService.MarkRead(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "alert not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to mark alert read", err)
		return
	}

	response.Success(c, nil)
}

// MarkAllAlertsRead 标记全部告警已读
func (h *Handler) MarkAllAlertsRead(c *gin.Context) {
	affected, err := h.AlertService.MarkAllRead()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to mark alerts read", err)
		return
	}

	response.Success(c, gin.H{"marked": affected})
}
