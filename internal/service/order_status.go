package service

import (
	"strings"

	"github.com/storepanel/internal/constants"
)

// orderStatusTransitions 订单状态机允许的流转
var orderStatusTransitions = map[string][]string{
	constants.OrderStatusPending:    {constants.OrderStatusConfirmed, constants.OrderStatusCancelled},
	constants.OrderStatusConfirmed:  {constants.OrderStatusProcessing, constants.OrderStatusCancelled},
	constants.OrderStatusProcessing: {constants.OrderStatusShipped, constants.OrderStatusCancelled},
	constants.OrderStatusShipped:    {constants.OrderStatusDelivered, constants.OrderStatusRefunded},
	constants.OrderStatusDelivered:  {constants.OrderStatusRefunded},
	// 已支付后取消的订单允许转入退款
	constants.OrderStatusCancelled: {constants.OrderStatusRefunded},
	constants.OrderStatusRefunded:  {},
}

// paymentStatusTransitions 支付状态允许的流转
var paymentStatusTransitions = map[string][]string{
	constants.PaymentStatusPending:  {constants.PaymentStatusPaid, constants.PaymentStatusFailed},
	constants.PaymentStatusFailed:   {constants.PaymentStatusPending, constants.PaymentStatusPaid},
	constants.PaymentStatusPaid:     {constants.PaymentStatusRefunded},
	constants.PaymentStatusRefunded: {},
}

// fulfillmentStatuses 合法履约状态
var fulfillmentStatuses = map[string]struct{}{
	constants.FulfillmentStatusUnfulfilled: {},
	constants.FulfillmentStatusPartial:     {},
	constants.FulfillmentStatusFulfilled:   {},
}

// canTransitionOrderStatus 判断订单状态能否流转，同状态写入视为无操作
func canTransitionOrderStatus(from, to string) bool {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if from == to {
		return true
	}
	allowed, ok := orderStatusTransitions[from]
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

// canTransitionPaymentStatus 判断支付状态能否流转
func canTransitionPaymentStatus(from, to string) bool {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if from == to {
		return true
	}
	allowed, ok := paymentStatusTransitions[from]
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

// isValidFulfillmentStatus 判断履约状态是否合法
func isValidFulfillmentStatus(status string) bool {
	_, ok := fulfillmentStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}
