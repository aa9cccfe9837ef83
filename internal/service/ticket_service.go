package service

import (
	"fmt"
	"strings"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"
)

// ticketStatusTransitions 工单状态允许的流转
// resolved 可重新打开，closed 为终态
var ticketStatusTransitions = map[string][]string{
	constants.TicketStatusOpen:       {constants.TicketStatusInProgress, constants.TicketStatusResolved, constants.TicketStatusClosed},
	constants.TicketStatusInProgress: {constants.TicketStatusOpen, constants.TicketStatusResolved, constants.TicketStatusClosed},
	constants.TicketStatusResolved:   {constants.TicketStatusOpen, constants.TicketStatusClosed},
	constants.TicketStatusClosed:     {},
}

// ticketPriorities 合法优先级
var ticketPriorities = map[string]struct{}{
	constants.TicketPriorityLow:    {},
	constants.TicketPriorityMedium: {},
	constants.TicketPriorityHigh:   {},
	constants.TicketPriorityUrgent: {},
}

// TicketService 工单业务服务
type TicketService struct {
	repo         repository.TicketRepository
	customerRepo repository.CustomerRepository
}

// NewTicketService 创建工单服务
func NewTicketService(repo repository.TicketRepository, customerRepo repository.CustomerRepository) *TicketService {
	return &TicketService{repo: repo, customerRepo: customerRepo}
}

// CreateTicketInput 创建工单输入
type CreateTicketInput struct {
	Subject    string
	CustomerID uint
	Priority   string
	AssignedTo string
	Message    string
}

// UpdateTicketInput 更新工单输入
type UpdateTicketInput struct {
	Status     *string
	Priority   *string
	AssignedTo *string
}

// AddMessageInput 追加工单消息输入
type AddMessageInput struct {
	Content     string
	AuthorName  string
	IsStaff     bool
	Attachments []models.Attachment
}

// List 工单列表
func (s *TicketService) List(filter repository.TicketListFilter) ([]models.SupportTicket, int64, error) {
	return s.repo.List(filter)
}

// Get 工单详情
func (s *TicketService) Get(id uint) (*models.SupportTicket, error) {
	ticket, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrNotFound
	}
	return ticket, nil
}

// NextTicketNumber 生成下一个工单号
func (s *TicketService) NextTicketNumber() (string, error) {
	seq, err := s.repo.MaxTicketNumberSeq()
	if err != nil {
		return "", err
	}
	if seq < constants.TicketNumberSeqStart {
		seq = constants.TicketNumberSeqStart - 1
	}
	return fmt.Sprintf("%s-%05d", constants.TicketNumberPrefix, seq+1), nil
}

// Create 创建工单
func (s *TicketService) Create(input CreateTicketInput) (*models.SupportTicket, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" || input.CustomerID == 0 {
		return nil, ErrInvalidInput
	}

	customer, err := s.customerRepo.GetByID(input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}

	priority := strings.ToLower(strings.TrimSpace(input.Priority))
	if priority == "" {
		priority = constants.TicketPriorityMedium
	}
	if _, ok := ticketPriorities[priority]; !ok {
		return nil, ErrInvalidInput
	}

	ticketNumber, err := s.NextTicketNumber()
	if err != nil {
		return nil, err
	}

	ticket := models.SupportTicket{
		TicketNumber: ticketNumber,
		Subject:      subject,
		CustomerID:   input.CustomerID,
		Priority:     priority,
		Status:       constants.TicketStatusOpen,
		AssignedTo:   strings.TrimSpace(input.AssignedTo),
	}
	if err := s.repo.Create(&ticket); err != nil {
		return nil, err
	}

	if message := strings.TrimSpace(input.Message); message != "" {
		firstMessage := models.TicketMessage{
			TicketID:   ticket.ID,
			Content:    message,
			AuthorName: customer.FullName(),
			IsStaff:    false,
		}
		if err := s.repo.AddMessage(&firstMessage); err != nil {
			return nil, err
		}
	}
	return s.Get(ticket.ID)
}

// Update 更新工单状态/优先级/负责人
func (s *TicketService) Update(id uint, input UpdateTicketInput) (*models.SupportTicket, error) {
	ticket, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !canTransitionTicketStatus(ticket.Status, status) {
			return nil, ErrTicketStatusInvalid
		}
		ticket.Status = status
	}
	if input.Priority != nil {
		priority := strings.ToLower(strings.TrimSpace(*input.Priority))
		if _, ok := ticketPriorities[priority]; !ok {
			return nil, ErrInvalidInput
		}
		ticket.Priority = priority
	}
	if input.AssignedTo != nil {
		ticket.AssignedTo = strings.TrimSpace(*input.AssignedTo)
	}

	if err := s.repo.Update(ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete 删除工单
func (s *TicketService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// AddMessage 追加工单消息
func (s *TicketService) AddMessage(id uint, input AddMessageInput) (*models.TicketMessage, error) {
	ticket, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	message := models.TicketMessage{
		TicketID:    ticket.ID,
		Content:     content,
		AuthorName:  strings.TrimSpace(input.AuthorName),
		IsStaff:     input.IsStaff,
		Attachments: models.AttachmentList(input.Attachments),
	}
	if err := s.repo.AddMessage(&message); err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages 工单消息列表
func (s *TicketService) ListMessages(id uint) ([]models.TicketMessage, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(id)
}

// canTransitionTicketStatus 判断工单状态能否流转，同状态写入视为无操作
func canTransitionTicketStatus(from, to string) bool {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if from == to {
		return true
	}
	allowed, ok := ticketStatusTransitions[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}
