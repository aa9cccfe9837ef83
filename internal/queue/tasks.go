package queue

import (
	"encoding/json"

	"github.com/storepanel/internal/constants"

	"github.com/hibiken/asynq"
)

// AlertInventoryScanPayload 库存扫描任务载荷
// ProductID 为 0 时表示全量扫描
type AlertInventoryScanPayload struct {
	ProductID uint `json:"product_id"`
}

// NewAlertInventoryScanTask 构建库存扫描任务
func NewAlertInventoryScanTask(payload AlertInventoryScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskAlertInventoryScan, data), nil
}

// ParseAlertInventoryScanPayload 解析库存扫描任务载荷
func ParseAlertInventoryScanPayload(task *asynq.Task) (AlertInventoryScanPayload, error) {
	var payload AlertInventoryScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AlertInventoryScanPayload{}, err
	}
	return payload, nil
}
