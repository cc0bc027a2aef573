package material

import (
	"tenderdesk/internal/core/types"
)

// SupplierInfo identifies where a resolved price came from.
type SupplierInfo struct {
	Name        string `json:"name"`
	IsFromQuote bool   `json:"isFromQuote"`
	QuoteID     string `json:"quoteId,omitempty"`
}

// ResolvedPrice is the output of the price resolution rule.
type ResolvedPrice struct {
	UnitPrice types.Money
	Supplier  SupplierInfo
}

// ResolvePrice derives the authoritative unit price and supplier for a
// material. The minimum attached quote wins over the base price; ties go to
// the first quote encountered. A missing or negative base price resolves to
// zero so downstream totals stay well-defined.
func ResolvePrice(m *Material) ResolvedPrice {
	if best := cheapestQuote(m.Quotes); best != nil {
		return ResolvedPrice{
			UnitPrice: types.CoercePrice(best.Price),
			Supplier: SupplierInfo{
				Name:        best.SupplierName,
				IsFromQuote: true,
				QuoteID:     best.QuoteID,
			},
		}
	}

	return ResolvedPrice{
		UnitPrice: types.CoercePrice(m.BasePrice),
		Supplier:  SupplierInfo{Name: supplierName(m)},
	}
}

// cheapestQuote returns the quote with the minimum price, or nil when the
// list is empty. First encountered wins on ties.
func cheapestQuote(quotes QuoteList) *PriceQuote {
	var best *PriceQuote
	for i := range quotes {
		q := &quotes[i]
		if best == nil || q.Price.LessThan(best.Price) {
			best = q
		}
	}
	return best
}

func supplierName(m *Material) string {
	if m.SupplierName != "" {
		return m.SupplierName
	}
	if m.Manufacturer != "" {
		return m.Manufacturer
	}
	return "unspecified"
}
