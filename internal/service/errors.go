package service

import "errors"

// 服务层业务错误，处理器根据错误类型映射 HTTP 状态码
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password does not meet policy")

	ErrSKUExists     = errors.New("sku already exists")
	ErrNameExists    = errors.New("name already exists")
	ErrEmailExists   = errors.New("email already exists")
	ErrCategoryInUse = errors.New("category has products")
	ErrInvalidInput  = errors.New("invalid input")

	ErrOrderStatusInvalid   = errors.New("order status transition not allowed")
	ErrPaymentStatusInvalid = errors.New("payment status transition not allowed")
	ErrInsufficientStock    = errors.New("insufficient inventory")
	ErrOrderEmpty           = errors.New("order requires at least one item")

	ErrTicketStatusInvalid = errors.New("ticket status transition not allowed")

	ErrAnalyticsRangeInvalid = errors.New("invalid analytics range")

	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)
