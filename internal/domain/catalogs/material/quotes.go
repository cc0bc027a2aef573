package material

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"tenderdesk/internal/core/types"
)

// PriceQuote is a supplier-specific price offer attached to a material.
type PriceQuote struct {
	QuoteID      string      `json:"quoteId"`
	Price        types.Money `json:"price"`
	SupplierName string      `json:"supplierName"`
}

// UnmarshalJSON decodes a quote tolerantly: an unparseable or missing price
// becomes zero rather than an error, so legacy records never poison a read.
func (q *PriceQuote) UnmarshalJSON(data []byte) error {
	var raw struct {
		QuoteID      string `json:"quoteId"`
		Price        any    `json:"price"`
		SupplierName string `json:"supplierName"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode price quote: %w", err)
	}

	q.QuoteID = raw.QuoteID
	q.SupplierName = raw.SupplierName
	q.Price = types.CoercePrice(raw.Price)
	return nil
}

// QuoteList stores price quotes as a JSONB array.
type QuoteList []PriceQuote

// Scan implements sql.Scanner for JSONB columns.
func (l *QuoteList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for QuoteList: %T", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}

	var quotes []PriceQuote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return fmt.Errorf("unmarshal quotes: %w", err)
	}
	*l = quotes
	return nil
}

// Value implements driver.Valuer for JSONB columns.
func (l QuoteList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}
