package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/orderloader/internal/loader"
)

func validRecord() loader.Record {
	return loader.Record{
		"order_id": "A1",
		"status":   "paid",
		"date":     "2024-01-05T10:00:00",
		"amount":   9.99,
		"customer": map[string]any{"region": "EU"},
	}
}

func TestExtractFields_Valid(t *testing.T) {
	fields, fault := extractFields(validRecord())
	require.Nil(t, fault)

	assert.Equal(t, "A1", fields.OrderID)
	assert.Equal(t, "paid", fields.Status)
	assert.Equal(t, "2024-01-05T10:00:00", fields.Date)
	assert.Equal(t, 9.99, fields.Amount)
}

func TestExtractFields_Faults(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(loader.Record)
		wantField string
	}{
		{"missing order_id", func(r loader.Record) { delete(r, "order_id") }, "order_id"},
		{"missing status", func(r loader.Record) { delete(r, "status") }, "status"},
		{"missing date", func(r loader.Record) { delete(r, "date") }, "date"},
		{"missing amount", func(r loader.Record) { delete(r, "amount") }, "amount"},
		{"numeric order_id", func(r loader.Record) { r["order_id"] = 42.0 }, "order_id"},
		{"string amount", func(r loader.Record) { r["amount"] = "9.99" }, "amount"},
		{"null date", func(r loader.Record) { r["date"] = nil }, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)

			_, fault := extractFields(rec)
			require.NotNil(t, fault)
			assert.Equal(t, tt.wantField, fault.Field)
		})
	}
}

func TestCustomerRegion(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(loader.Record)
		want   string
		ok     bool
	}{
		{"present", func(loader.Record) {}, "EU", true},
		{"missing customer", func(r loader.Record) { delete(r, "customer") }, "", false},
		{"missing region", func(r loader.Record) { r["customer"] = map[string]any{"name": "x"} }, "", false},
		{"null region", func(r loader.Record) { r["customer"] = map[string]any{"region": nil} }, "", false},
		{"customer not an object", func(r loader.Record) { r["customer"] = "EU" }, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)

			region, ok := customerRegion(rec)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, region)
		})
	}
}

func TestParseTimestamp_AcceptedLayouts(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-05T10:00:00", time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		{"2024-01-05T10:00:00.5", time.Date(2024, 1, 5, 10, 0, 0, 500000000, time.UTC)},
		{"2024-01-05T10:00:00Z", time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		{"2024-01-05 10:00:00", time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		{"2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestParseTimestamp_Rejected(t *testing.T) {
	for _, input := range []string{"not-a-date", "05/01/2024", "2024-13-01", ""} {
		t.Run(input, func(t *testing.T) {
			_, err := parseTimestamp(input)
			assert.Error(t, err)
		})
	}
}
