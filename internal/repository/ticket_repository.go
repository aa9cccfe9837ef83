package repository

import (
	"errors"
	"strings"

	"github.com/storepanel/internal/models"

	"gorm.io/gorm"
)

// TicketRepository 工单数据访问接口
type TicketRepository interface {
	List(filter TicketListFilter) ([]models.SupportTicket, int64, error)
	GetByID(id uint) (*models.SupportTicket, error)
	GetByTicketNumber(ticketNumber string) (*models.SupportTicket, error)
	Create(ticket *models.SupportTicket) error
	Update(ticket *models.SupportTicket) error
	Delete(id uint) error
	MaxTicketNumberSeq() (int64, error)
	AddMessage(message *models.TicketMessage) error
	ListMessages(ticketID uint) ([]models.TicketMessage, error)
}

// GormTicketRepository GORM 实现
type GormTicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository 创建工单仓库
func NewTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// List 工单列表
func (r *GormTicketRepository) List(filter TicketListFilter) ([]models.SupportTicket, int64, error) {
	var tickets []models.SupportTicket

	query := r.db.Model(&models.SupportTicket{}).Preload("Customer")
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := strings.TrimSpace(filter.Priority); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if assignedTo := strings.TrimSpace(filter.AssignedTo); assignedTo != "" {
		query = query.Where("assigned_to = ?", assignedTo)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"ticket_number", "subject"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC, id DESC").Find(&tickets).Error; err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// GetByID 根据 ID 获取工单
func (r *GormTicketRepository) GetByID(id uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.Preload("Customer").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

// GetByTicketNumber 根据工单号获取工单
func (r *GormTicketRepository) GetByTicketNumber(ticketNumber string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.Preload("Customer").
		Where("ticket_number = ?", ticketNumber).
		First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

// Create 创建工单
func (r *GormTicketRepository) Create(ticket *models.SupportTicket) error {
	return r.db.Create(ticket).Error
}

// Update 更新工单
func (r *GormTicketRepository) Update(ticket *models.SupportTicket) error {
	return r.db.Save(ticket).Error
}

// Delete 删除工单（软删除）
func (r *GormTicketRepository) Delete(id uint) error {
	return r.db.Delete(&models.SupportTicket{}, id).Error
}

// MaxTicketNumberSeq 获取当前最大工单号序号
func (r *GormTicketRepository) MaxTicketNumberSeq() (int64, error) {
	var raw string
	err := r.db.Unscoped().Model(&models.SupportTicket{}).
		Order("LENGTH(ticket_number) DESC, ticket_number DESC").
		Limit(1).
		Pluck("ticket_number", &raw).Error
	if err != nil {
		return 0, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	idx := strings.LastIndex(raw, "-")
	if idx < 0 || idx+1 >= len(raw) {
		return 0, nil
	}
	var seq int64
	for _, ch := range raw[idx+1:] {
		if ch < '0' || ch > '9' {
			return 0, nil
		}
		seq = seq*10 + int64(ch-'0')
	}
	return seq, nil
}

// AddMessage 追加工单消息
func (r *GormTicketRepository) AddMessage(message *models.TicketMessage) error {
	return r.db.Create(message).Error
}

// ListMessages 工单消息列表（按时间升序）
func (r *GormTicketRepository) ListMessages(ticketID uint) ([]models.TicketMessage, error) {
	messages := make([]models.TicketMessage, 0)
	err := r.db.Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
