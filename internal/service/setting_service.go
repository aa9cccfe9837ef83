package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/models"
	"github.com/storepanel/internal/repository"
)

// SettingService 设置业务服务
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// defaultStoreConfig 店铺配置默认值
func defaultStoreConfig() map[string]interface{} {
	return map[string]interface{}{
		"store_name":    "Storepanel",
		"currency":      "USD",
		"support_email": "",
	}
}

// GetStoreConfig 获取店铺配置（合并默认值）
func (s *SettingService) GetStoreConfig() (map[string]interface{}, error) {
	data := defaultStoreConfig()

	setting, err := s.repo.GetByKey(constants.SettingKeyStoreConfig)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return data, nil
	}

	for k, v := range setting.ValueJSON {
		data[k] = v
	}
	return data, nil
}

// GetByKey 获取设置
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// Update 设置值
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	setting, err := s.repo.Upsert(key, models.JSON(value))
	if err != nil {
		return nil, err
	}
	return setting.ValueJSON, nil
}

// GetLowStockThreshold 获取库存预警阈值配置，非法或缺失时回退默认值
func (s *SettingService) GetLowStockThreshold(defaultValue int) (int, error) {
	if s == nil {
		return defaultValue, nil
	}
	value, err := s.GetByKey(constants.SettingKeyAlertConfig)
	if err != nil {
		return defaultValue, err
	}
	if value == nil {
		return defaultValue, nil
	}
	raw, ok := value[constants.SettingFieldLowStockThreshold]
	if !ok {
		return defaultValue, nil
	}
	threshold, err := parseSettingInt(raw)
	if err != nil {
		return defaultValue, err
	}
	if threshold <= 0 {
		return defaultValue, nil
	}
	return threshold, nil
}

func parseSettingInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
		if f, err := v.Float64(); err == nil {
			return int(f), nil
		}
		return 0, fmt.Errorf("invalid json number")
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, err
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported setting value type %T", value)
	}
}
