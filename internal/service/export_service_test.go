package service

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/storepanel/internal/models"
)

func TestEscapeCSVValue(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"comma", "O'Brien, Inc.", `"O'Brien, Inc."`},
		{"quote", `say "hi"`, `"say ""hi"""`},
		{"newline", "line1\nline2", "\"line1\nline2\""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := escapeCSVValue(tc.input)
			if got != tc.want {
				t.Fatalf("escapeCSVValue(%q) want %q got %q", tc.input, tc.want, got)
			}
		})
	}
}

func TestConvertToCSVRoundTrip(t *testing.T) {
	columns := []ExportColumn{
		{Key: "name", Label: "Name"},
		{Key: "company", Label: "Company"},
		{Key: "note", Label: "Note"},
	}
	records := []map[string]any{
		{"name": "Alice", "company": "O'Brien, Inc.", "note": "first\nsecond"},
		{"name": `Bob "Bobby"`, "company": "Plain Co", "note": ""},
	}

	out := ConvertToCSV(records, columns)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse generated csv failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows want 3 got %d", len(rows))
	}
	if rows[0][1] != "Company" {
		t.Fatalf("header want Company got %s", rows[0][1])
	}
	if rows[1][1] != "O'Brien, Inc." {
		t.Fatalf("comma value should round-trip, got %q", rows[1][1])
	}
	if rows[1][2] != "first\nsecond" {
		t.Fatalf("newline value should round-trip, got %q", rows[1][2])
	}
	if rows[2][0] != `Bob "Bobby"` {
		t.Fatalf("quoted value should round-trip, got %q", rows[2][0])
	}
}

func TestConvertToCSVEmptyRecords(t *testing.T) {
	out := ConvertToCSV(nil, orderExportColumns())
	if out != "" {
		t.Fatalf("empty records want empty string got %q", out)
	}
}

func TestNestedValue(t *testing.T) {
	record := map[string]any{
		"order_number": "ORD-10001",
		"customer": map[string]any{
			"email": "alice@example.com",
		},
	}
	if got := nestedValue(record, "customer.email"); got != "alice@example.com" {
		t.Fatalf("nested lookup want alice@example.com got %v", got)
	}
	if got := nestedValue(record, "customer.phone"); got != nil {
		t.Fatalf("missing leaf want nil got %v", got)
	}
	if got := nestedValue(record, "payment.method"); got != nil {
		t.Fatalf("missing branch want nil got %v", got)
	}
}

func TestOrderExportRecordColumns(t *testing.T) {
	order := models.Order{
		OrderNumber:       "ORD-10001",
		Status:            "pending",
		PaymentStatus:     "paid",
		FulfillmentStatus: "unfulfilled",
		Subtotal:          models.NewMoneyFromFloat(60),
		TaxAmount:         models.NewMoneyFromFloat(4.8),
		ShippingAmount:    models.NewMoneyFromFloat(10),
		TotalAmount:       models.NewMoneyFromFloat(74.8),
		TrackingNumber:    "TRACK-1",
		Notes:             "leave at door, ring bell",
		ShippingAddress: models.Address{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
			Country: "US",
		},
		Customer: models.Customer{
			FirstName: "Alice",
			LastName:  "O'Brien",
			Email:     "alice@example.com",
		},
	}

	out := ConvertToCSV([]map[string]any{orderExportRecord(&order)}, orderExportColumns())
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse order csv failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows want 2 got %d", len(rows))
	}

	header := rows[0]
	row := rows[1]
	byLabel := make(map[string]string, len(header))
	for i, label := range header {
		byLabel[label] = row[i]
	}

	if byLabel["Order Number"] != "ORD-10001" {
		t.Fatalf("order number want ORD-10001 got %s", byLabel["Order Number"])
	}
	if byLabel["Customer Email"] != "alice@example.com" {
		t.Fatalf("customer email want alice@example.com got %s", byLabel["Customer Email"])
	}
	if byLabel["Tax"] != "4.80" {
		t.Fatalf("tax want 4.80 got %s", byLabel["Tax"])
	}
	if byLabel["Total Amount"] != "74.80" {
		t.Fatalf("total want 74.80 got %s", byLabel["Total Amount"])
	}
	if byLabel["Shipping Address"] != "1 Main St, Springfield, IL, 62701, US" {
		t.Fatalf("shipping address formatting got %q", byLabel["Shipping Address"])
	}
	if byLabel["Billing Address"] != "" {
		t.Fatalf("empty billing address want empty cell got %q", byLabel["Billing Address"])
	}
	if byLabel["Notes"] != "leave at door, ring bell" {
		t.Fatalf("notes with comma should round-trip, got %q", byLabel["Notes"])
	}
}
