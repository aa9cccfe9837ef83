package models

import (
	"database/sql/driver"
	"encoding/json"
)

// JSON 类型定义，用于存储键值配置等松散结构
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := normalizeJSONBytes(value)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// StringArray 字符串数组类型，用于存储 tags、images 等
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}
	bytes, ok := normalizeJSONBytes(value)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Address 结构化地址
// 作为 JSON 列整体存储，不做子字段索引
type Address struct {
	Label   string `json:"label,omitempty"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// Value 实现 driver.Valuer 接口
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan 实现 sql.Scanner 接口
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	bytes, ok := normalizeJSONBytes(value)
	if !ok {
		return nil
	}
	if err := json.Unmarshal(bytes, a); err != nil {
		// 历史数据可能是非法字符串，按空地址处理
		*a = Address{}
	}
	return nil
}

// IsZero 判断地址是否为空
func (a Address) IsZero() bool {
	return a == Address{}
}

// AddressList 地址数组类型
type AddressList []Address

// Value 实现 driver.Valuer 接口
func (l AddressList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口
// 非法历史数据统一降级为空列表
func (l *AddressList) Scan(value interface{}) error {
	if value == nil {
		*l = AddressList{}
		return nil
	}
	bytes, ok := normalizeJSONBytes(value)
	if !ok {
		*l = AddressList{}
		return nil
	}
	if err := json.Unmarshal(bytes, l); err != nil {
		*l = AddressList{}
	}
	return nil
}

// Attachment 工单附件
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
}

// AttachmentList 附件数组类型
type AttachmentList []Attachment

// Value 实现 driver.Valuer 接口
func (l AttachmentList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口
func (l *AttachmentList) Scan(value interface{}) error {
	if value == nil {
		*l = AttachmentList{}
		return nil
	}
	bytes, ok := normalizeJSONBytes(value)
	if !ok {
		*l = AttachmentList{}
		return nil
	}
	if err := json.Unmarshal(bytes, l); err != nil {
		*l = AttachmentList{}
	}
	return nil
}

func normalizeJSONBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
