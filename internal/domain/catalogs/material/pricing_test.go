package material

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tenderdesk/internal/core/types"
)

func TestResolvePrice_MinQuoteWins(t *testing.T) {
	m := New(KindRawMaterial, "RM-001", "Steel")
	m.BasePrice = types.MustMoney("100")
	m.Quotes = QuoteList{
		{QuoteID: "q1", Price: types.MustMoney("50"), SupplierName: "Alpha"},
		{QuoteID: "q2", Price: types.MustMoney("30"), SupplierName: "Beta"},
		{QuoteID: "q3", Price: types.MustMoney("75"), SupplierName: "Gamma"},
	}

	got := ResolvePrice(m)

	assert.True(t, got.UnitPrice.Equal(types.MustMoney("30")))
	assert.Equal(t, "Beta", got.Supplier.Name)
	assert.True(t, got.Supplier.IsFromQuote)
	assert.Equal(t, "q2", got.Supplier.QuoteID)
}

func TestResolvePrice_TieGoesToFirstQuote(t *testing.T) {
	m := New(KindLocalProduct, "LP-001", "Cement")
	m.Quotes = QuoteList{
		{QuoteID: "q1", Price: types.MustMoney("40"), SupplierName: "First"},
		{QuoteID: "q2", Price: types.MustMoney("40"), SupplierName: "Second"},
	}

	got := ResolvePrice(m)

	assert.Equal(t, "First", got.Supplier.Name)
	assert.Equal(t, "q1", got.Supplier.QuoteID)
}

func TestResolvePrice_NoQuotesUsesBasePrice(t *testing.T) {
	m := New(KindForeign, "FP-001", "Bearings")
	m.BasePrice = types.MustMoney("12.50")
	m.SupplierName = "Importer Ltd"

	got := ResolvePrice(m)

	assert.True(t, got.UnitPrice.Equal(types.MustMoney("12.50")))
	assert.Equal(t, "Importer Ltd", got.Supplier.Name)
	assert.False(t, got.Supplier.IsFromQuote)
	assert.Empty(t, got.Supplier.QuoteID)
}

func TestResolvePrice_SupplierFallbackChain(t *testing.T) {
	m := New(KindManufactured, "MP-001", "Widget")
	m.Manufacturer = "Own Plant"

	got := ResolvePrice(m)
	assert.Equal(t, "Own Plant", got.Supplier.Name)

	m.Manufacturer = ""
	got = ResolvePrice(m)
	assert.Equal(t, "unspecified", got.Supplier.Name)
}

func TestResolvePrice_NegativeBasePriceCoercesToZero(t *testing.T) {
	m := New(KindRawMaterial, "RM-002", "Scrap")
	m.BasePrice = types.MustMoney("-5")

	got := ResolvePrice(m)

	assert.True(t, got.UnitPrice.IsZero())
}

func TestQuoteList_TolerantDecoding(t *testing.T) {
	var l QuoteList
	err := l.Scan([]byte(`[{"quoteId":"q1","price":"abc","supplierName":"S"},{"quoteId":"q2","price":25,"supplierName":"T"}]`))

	assert.NoError(t, err)
	assert.Len(t, l, 2)
	// Garbage price decodes as zero, never an error.
	assert.True(t, l[0].Price.IsZero())
	assert.True(t, l[1].Price.Equal(types.MustMoney("25")))
}

func TestQuoteList_ScanNull(t *testing.T) {
	var l QuoteList
	assert.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	assert.NoError(t, l.Scan([]byte("null")))
	assert.Nil(t, l)
}
