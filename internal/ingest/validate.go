package ingest

import (
	"fmt"
	"time"

	"github.com/Additional-Code/orderloader/internal/loader"
)

// rawFields holds the required top-level values of a record after presence
// and type checks, before date parsing.
type rawFields struct {
	OrderID string
	Status  string
	Date    string
	Amount  float64
}

// fieldFault describes a per-record validation failure. Faults are tallied
// into the errors counter; they never abort the batch.
type fieldFault struct {
	Field  string
	Reason string
	Value  any
}

func (f *fieldFault) String() string {
	if f.Value == nil {
		return fmt.Sprintf("%s: %s", f.Field, f.Reason)
	}
	return fmt.Sprintf("%s: %s (%v)", f.Field, f.Reason, f.Value)
}

// extractFields pulls the required top-level fields out of a raw record.
// A missing field is the hard-reject case; a present field of the wrong type
// falls under the same counter with its own reason.
func extractFields(rec loader.Record) (rawFields, *fieldFault) {
	var out rawFields

	id, fault := stringField(rec, "order_id")
	if fault != nil {
		return out, fault
	}
	status, fault := stringField(rec, "status")
	if fault != nil {
		return out, fault
	}
	date, fault := stringField(rec, "date")
	if fault != nil {
		return out, fault
	}

	rawAmount, ok := rec["amount"]
	if !ok {
		return out, &fieldFault{Field: "amount", Reason: "missing"}
	}
	amount, ok := rawAmount.(float64)
	if !ok {
		return out, &fieldFault{Field: "amount", Reason: "not a number", Value: rawAmount}
	}

	out = rawFields{OrderID: id, Status: status, Date: date, Amount: amount}
	return out, nil
}

func stringField(rec loader.Record, field string) (string, *fieldFault) {
	raw, ok := rec[field]
	if !ok {
		return "", &fieldFault{Field: field, Reason: "missing"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &fieldFault{Field: field, Reason: "not a string", Value: raw}
	}
	return s, nil
}

// customerRegion digs out the nested customer.region value. Absence of the
// customer object, the region field, or a non-string region all count as the
// same soft-reject.
func customerRegion(rec loader.Record) (string, bool) {
	customer, ok := rec["customer"].(map[string]any)
	if !ok {
		return "", false
	}
	region, ok := customer["region"].(string)
	if !ok {
		return "", false
	}
	return region, true
}

// timestampLayouts covers the ISO-8601 shapes accepted for the date field,
// with and without offset, fractional seconds, and time-of-day.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
