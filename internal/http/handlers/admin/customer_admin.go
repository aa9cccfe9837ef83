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

// ListCustomers 客户列表
func (h *Handler) ListCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	customers, total, err := h.CustomerService.List(repository.CustomerListFilter{
		Page:      page,
		PageSize:  pageSize,
		SegmentID: parseUintQuery(c, "segment_id"),
		Search:    c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch customers", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, customers, pagination)
}

// GetCustomer 客户详情
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.CustomerService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "customer not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch customer", err)
		return
	}

	response.Success(c, customer)
}

// CustomerRequest 创建/更新客户请求
type CustomerRequest struct {
	FirstName string           `json:"first_name" binding:"required"`
	LastName  string           `json:"last_name" binding:"required"`
	Email     string           `json:"email" binding:"required,email"`
	Phone     string           `json:"phone"`
	Addresses []models.Address `json:"addresses"`
	Tags      []string         `json:"tags"`
	Notes     string           `json:"notes"`
}

func (r CustomerRequest) toInput() service.CustomerInput {
	return service.CustomerInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Addresses: r.Addresses,
		Tags:      r.Tags,
		Notes:     r.Notes,
	}
}

// CreateCustomer 创建客户
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	customer, err := h.CustomerService.Create(req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			respondError(c, response.CodeConflict, "email already exists", nil)
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "invalid customer input", err)
			return
		}
		respondError(c, response.CodeInternal, "failed to create customer", err)
		return
	}

	response.Success(c, customer)
}

// UpdateCustomer 更新客户
func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	customer, err := h.CustomerService.Update(id, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "customer not found", nil)
			return
		}
		if errors.Is(err, service.ErrEmailExists) {
			respondError(c, response.CodeConflict, "email already exists", nil)
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "invalid customer input", err)
			return
		}
		respondError(c, response.CodeInternal, "failed to update customer", err)
		return
	}

	response.Success(c, customer)
}

// DeleteCustomer 删除客户（软删除）
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.CustomerService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "customer not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete customer", err)
		return
	}

	response.Success(c, nil)
}

// AssignSegmentRequest 分配客户分群请求
type AssignSegmentRequest struct {
	SegmentID *uint `json:"segment_id"`
}

// AssignCustomerSegment 分配客户到分群（segment_id 为空表示移出分群）
func (h *Handler) AssignCustomerSegment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	customer, err := h.CustomerService.AssignSegment(id, req.SegmentID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "customer or segment not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to assign segment", err)
		return
	}

	response.Success(c, customer)
}
