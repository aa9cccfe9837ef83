package admin

import (
	"errors"
	"strconv"

	"github.com/storepanel/internal/http/handlers/shared"
	"github.com/storepanel/internal/http/response"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"
	"github.com/storepanel/internal/service"

	"github.com/gin-gonic/gin"
)

// ListTickets 工单列表
func (h *Handler) ListTickets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	tickets, total, err := h.TicketService.List(repository.TicketListFilter{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: parseUintQuery(c, "customer_id"),
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		AssignedTo: c.Query("assigned_to"),
		Search:     c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch tickets", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, tickets, pagination)
}

// GetTicket 工单详情
func (h *Handler) GetTicket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ticket, err := h.TicketService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "ticket not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch ticket", err)
		return
	}

	response.Success(c, ticket)
}

// CreateTicketRequest 创建工单请求
type CreateTicketRequest struct {
	Subject    string `json:"subject" binding:"required"`
	CustomerID uint   `json:"customer_id" binding:"required"`
	Priority   string `json:"priority"`
	AssignedTo string `json:"assigned_to"`
	Message    string `json:"message"`
}

// CreateTicket 创建工单
func (h *Handler) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	ticket, err := h.TicketService.Create(service.CreateTicketInput{
		Subject:    req.Subject,
		CustomerID: req.CustomerID,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
		Message:    req.Message,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "customer not found", nil)
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "invalid ticket input", err)
			return
		}
		respondError(c, response.CodeInternal, "failed to create ticket", err)
		return
	}

	response.Success(c, ticket)
}

// UpdateTicketRequest 更新工单请求
type UpdateTicketRequest struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	AssignedTo *string `json:"assigned_to"`
}

// UpdateTicket 更新工单
func (h *Handler) UpdateTicket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	ticket, err := h.TicketService.Update(id, service.UpdateTicketInput{
		Status:     req.Status,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "ticket not found", nil)
			return
		}
		if errors.Is(err, service.ErrTicketStatusInvalid) {
			respondError(c, response.CodeBadRequest, "ticket status transition not allowed", nil)
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "invalid ticket input", err)
			return
		}
		respondError(c, response.CodeInternal, "failed to update ticket", err)
		return
	}

	response.Success(c, ticket)
}

// DeleteTicket 删除工单
func (h *Handler) DeleteTicket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.TicketService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "ticket not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete ticket", err)
		return
	}

	response.Success(c, nil)
}

// ListTicketMessages 工单消息列表
func (h *Handler) ListTicketMessages(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	messages, err := h.TicketService.ListMessages(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "ticket not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch ticket messages", err)
		return
	}

	response.Success(c, messages)
}

// AddTicketMessageRequest 追加工单消息请求
type AddTicketMessageRequest struct {
	Content     string              `json:"content" binding:"required"`
	AuthorName  string              `json:"author_name"`
	IsStaff     bool                `json:"is_staff"`
	Attachments []models.Attachment `json:"attachments"`
}

// AddTicketMessage 追加工单消息
func (h *Handler) AddTicketMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddTicketMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	message, err := h.TicketService.AddMessage(id, service.AddMessageInput{
		Content:     req.Content,
		AuthorName:  req.AuthorName,
		IsStaff:     req.IsStaff,
		Attachments: req.Attachments,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "ticket not found", nil)
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "invalid message input", err)
			return
		}
		respondError(c, response.CodeInternal, "failed to add ticket message", err)
		return
	}

	response.Success(c, message)
}
