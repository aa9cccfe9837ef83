package service

import (
	"strings"

	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"
)

// SegmentService 客户分群业务服务
type SegmentService struct {
	repo         repository.SegmentRepository
	customerRepo repository.CustomerRepository
}

// NewSegmentService 创建分群服务
func NewSegmentService(repo repository.SegmentRepository, customerRepo repository.CustomerRepository) *SegmentService {
	return &SegmentService{repo: repo, customerRepo: customerRepo}
}

// SegmentInput 创建/更新分群输入
type SegmentInput struct {
	Name        string
	Description string
	Criteria    string
}

// List 分群列表（读取时重算计数）
func (s *SegmentService) List() ([]models.CustomerSegment, error) {
	segments, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	for i := range segments {
		count, err := s.customerRepo.CountBySegment(segments[i].ID)
		if err != nil {
			return nil, err
		}
		if count != segments[i].CustomerCount {
			if err := s.repo.UpdateCustomerCount(segments[i].ID, count); err != nil {
				return nil, err
			}
		}
		segments[i].CustomerCount = count
	}
	return segments, nil
}

// Get 分群详情（读取时重算计数）
func (s *SegmentService) Get(id uint) (*models.CustomerSegment, error) {
	segment, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if segment == nil {
		return nil, ErrNotFound
	}

	count, err := s.customerRepo.CountBySegment(id)
	if err != nil {
		return nil, err
	}
	if count != segment.CustomerCount {
		if err := s.repo.UpdateCustomerCount(id, count); err != nil {
			return nil, err
		}
	}
	segment.CustomerCount = count
	return segment, nil
}

// Create 创建分群
func (s *SegmentService) Create(input SegmentInput) (*models.CustomerSegment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	count, err := s.repo.CountByName(name, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameExists
	}

	segment := models.CustomerSegment{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Criteria:    strings.TrimSpace(input.Criteria),
	}
	if err := s.repo.Create(&segment); err != nil {
		return nil, err
	}
	return &segment, nil
}

// Update 更新分群
func (s *SegmentService) Update(id uint, input SegmentInput) (*models.CustomerSegment, error) {
	segment, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if segment == nil {
		return nil, ErrNotFound
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	count, err := s.repo.CountByName(name, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameExists
	}

	segment.Name = name
	segment.Description = strings.TrimSpace(input.Description)
	segment.Criteria = strings.TrimSpace(input.Criteria)

	if err := s.repo.Update(segment); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete 删除分群（成员客户自动解绑）
func (s *SegmentService) Delete(id uint) error {
	segment, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if segment == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}
