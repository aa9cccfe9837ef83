package service

import (
	"testing"

	"github.com/storepanel/internal/constants"
)

func TestCanTransitionOrderStatus(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending_to_confirmed", constants.OrderStatusPending, constants.OrderStatusConfirmed, true},
		{"confirmed_to_processing", constants.OrderStatusConfirmed, constants.OrderStatusProcessing, true},
		{"processing_to_shipped", constants.OrderStatusProcessing, constants.OrderStatusShipped, true},
		{"shipped_to_delivered", constants.OrderStatusShipped, constants.OrderStatusDelivered, true},
		{"pending_skips_to_shipped", constants.OrderStatusPending, constants.OrderStatusShipped, false},
		{"pending_to_cancelled", constants.OrderStatusPending, constants.OrderStatusCancelled, true},
		{"processing_to_cancelled", constants.OrderStatusProcessing, constants.OrderStatusCancelled, true},
		{"shipped_to_cancelled", constants.OrderStatusShipped, constants.OrderStatusCancelled, false},
		{"delivered_to_refunded", constants.OrderStatusDelivered, constants.OrderStatusRefunded, true},
		{"cancelled_to_refunded", constants.OrderStatusCancelled, constants.OrderStatusRefunded, true},
		{"refunded_is_terminal", constants.OrderStatusRefunded, constants.OrderStatusPending, false},
		{"same_state_is_noop", constants.OrderStatusShipped, constants.OrderStatusShipped, true},
		{"unknown_target", constants.OrderStatusPending, "archived", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := canTransitionOrderStatus(tc.from, tc.to)
			if got != tc.want {
				t.Fatalf("canTransitionOrderStatus(%s, %s) want %v got %v", tc.from, tc.to, tc.want, got)
			}
		})
	}
}

func TestCanTransitionPaymentStatus(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending_to_paid", constants.PaymentStatusPending, constants.PaymentStatusPaid, true},
		{"pending_to_failed", constants.PaymentStatusPending, constants.PaymentStatusFailed, true},
		{"failed_retry_to_pending", constants.PaymentStatusFailed, constants.PaymentStatusPending, true},
		{"failed_direct_to_paid", constants.PaymentStatusFailed, constants.PaymentStatusPaid, true},
		{"paid_to_refunded", constants.PaymentStatusPaid, constants.PaymentStatusRefunded, true},
		{"paid_back_to_pending", constants.PaymentStatusPaid, constants.PaymentStatusPending, false},
		{"refunded_is_terminal", constants.PaymentStatusRefunded, constants.PaymentStatusPaid, false},
		{"same_state_is_noop", constants.PaymentStatusPaid, constants.PaymentStatusPaid, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := canTransitionPaymentStatus(tc.from, tc.to)
			if got != tc.want {
				t.Fatalf("canTransitionPaymentStatus(%s, %s) want %v got %v", tc.from, tc.to, tc.want, got)
			}
		})
	}
}

func TestCanTransitionTicketStatus(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"open_to_in_progress", constants.TicketStatusOpen, constants.TicketStatusInProgress, true},
		{"in_progress_back_to_open", constants.TicketStatusInProgress, constants.TicketStatusOpen, true},
		{"in_progress_to_resolved", constants.TicketStatusInProgress, constants.TicketStatusResolved, true},
		{"resolved_reopened", constants.TicketStatusResolved, constants.TicketStatusOpen, true},
		{"resolved_to_closed", constants.TicketStatusResolved, constants.TicketStatusClosed, true},
		{"closed_is_terminal", constants.TicketStatusClosed, constants.TicketStatusOpen, false},
		{"same_state_is_noop", constants.TicketStatusOpen, constants.TicketStatusOpen, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := canTransitionTicketStatus(tc.from, tc.to)
			if got != tc.want {
				t.Fatalf("canTransitionTicketStatus(%s, %s) want %v got %v", tc.from, tc.to, tc.want, got)
			}
		})
	}
}

func TestIsValidFulfillmentStatus(t *testing.T) {
	for _, status := range []string{constants.FulfillmentStatusUnfulfilled, constants.FulfillmentStatusPartial, constants.FulfillmentStatusFulfilled} {
		if !isValidFulfillmentStatus(status) {
			t.Fatalf("%s should be valid", status)
		}
	}
	if isValidFulfillmentStatus("returned") {
		t.Fatal("returned should be invalid")
	}
}
