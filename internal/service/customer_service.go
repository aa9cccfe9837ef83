package service

import (
	"strings"

	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"

	"gorm.io/gorm"
)

// CustomerService 客户业务服务
type CustomerService struct {
	repo        repository.CustomerRepository
	segmentRepo repository.SegmentRepository
}

// NewCustomerService 创建客户服务
func NewCustomerService(repo repository.CustomerRepository, segmentRepo repository.SegmentRepository) *CustomerService {
	return &CustomerService{repo: repo, segmentRepo: segmentRepo}
}

// CustomerInput 创建/更新客户输入
type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Addresses []models.Address
	Tags      []string
	Notes     string
}

// List 客户列表
func (s *CustomerService) List(filter repository.CustomerListFilter) ([]models.Customer, int64, error) {
	return s.repo.List(filter)
}

// Get 客户详情
func (s *CustomerService) Get(id uint) (*models.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}
	return customer, nil
}

func normalizeCustomerInput(input *CustomerInput) error {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	if input.FirstName == "" || input.Email == "" || !strings.Contains(input.Email, "@") {
		return ErrInvalidInput
	}
	return nil
}

// Create 创建客户
func (s *CustomerService) Create(input CustomerInput) (*models.Customer, error) {
	if err := normalizeCustomerInput(&input); err != nil {
		return nil, err
	}

	count, err := s.repo.CountByEmail(input.Email, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	customer := models.Customer{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Addresses: models.AddressList(input.Addresses),
		Tags:      models.StringArray(input.Tags),
		Notes:     strings.TrimSpace(input.Notes),
	}
	if err := s.repo.Create(&customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update 更新客户
func (s *CustomerService) Update(id uint, input CustomerInput) (*models.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}

	if err := normalizeCustomerInput(&input); err != nil {
		return nil, err
	}

	count, err := s.repo.CountByEmail(input.Email, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	customer.FirstName = input.FirstName
	customer.LastName = input.LastName
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Addresses = models.AddressList(input.Addresses)
	customer.Tags = models.StringArray(input.Tags)
	customer.Notes = strings.TrimSpace(input.Notes)

	if err := s.repo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete 删除客户，并刷新原分群计数
func (s *CustomerService) Delete(id uint) error {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return ErrNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if customer.SegmentID != nil {
		if err := s.refreshSegmentCount(*customer.SegmentID); err != nil {
			return err
		}
	}
	return nil
}

// AssignSegment 调整客户所属分群，并重算新旧分群计数
// segmentID 为 nil 时仅解绑
func (s *CustomerService) AssignSegment(id uint, segmentID *uint) (*models.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}

	if segmentID != nil {
		segment, err := s.segmentRepo.GetByID(*segmentID)
		if err != nil {
			return nil, err
		}
		if segment == nil {
			return nil, ErrNotFound
		}
	}

	oldSegmentID := customer.SegmentID
	customer.SegmentID = segmentID

	// 改绑与新旧分群计数重算在同一事务内，计数始终由 COUNT 重算
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		customerTx := s.repo.WithTx(tx)
		segmentTx := s.segmentRepo.WithTx(tx)
		if err := customerTx.Update(customer); err != nil {
			return err
		}
		if oldSegmentID != nil {
			if err := refreshSegmentCount(customerTx, segmentTx, *oldSegmentID); err != nil {
				return err
			}
		}
		if segmentID != nil {
			if err := refreshSegmentCount(customerTx, segmentTx, *segmentID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *CustomerService) refreshSegmentCount(segmentID uint) error {
	return refreshSegmentCount(s.repo, s.segmentRepo, segmentID)
}

func refreshSegmentCount(customerRepo repository.CustomerRepository, segmentRepo repository.SegmentRepository, segmentID uint) error {
	count, err := customerRepo.CountBySegment(segmentID)
	if err != nil {
		return err
	}
	return segmentRepo.UpdateCustomerCount(segmentID, count)
}
