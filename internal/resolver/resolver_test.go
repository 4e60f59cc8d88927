package resolver

import (
	"testing"

	"currency_converter/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	r := New(DefaultTable())

	tests := []struct {
		name       string
		designator string
		expected   models.CurrencyCode
		ok         bool
	}{
		{name: "Accented name", designator: "dólar", expected: "USD", ok: true},
		{name: "Accented name upper case", designator: "DÓLAR", expected: "USD", ok: true},
		{name: "Unaccented spelling", designator: "Dolar", expected: "USD", ok: true},
		{name: "Euro", designator: "euro", expected: "EUR", ok: true},
		{name: "Real with spaces", designator: "  Real  ", expected: "BRL", ok: true},
		{name: "Libra", designator: "LIBRA", expected: "GBP", ok: true},
		{name: "Iene", designator: "iene", expected: "JPY", ok: true},
		{name: "Two-word name", designator: "Franco Suíço", expected: "CHF", ok: true},
		{name: "Yuan", designator: "yuan", expected: "CNY", ok: true},
		{name: "Lower case code", designator: "eur", expected: "EUR", ok: true},
		{name: "Mixed case unknown code", designator: "xYz", expected: "XYZ", ok: true},
		{name: "Code with spaces", designator: " brl ", expected: "BRL", ok: true},
		{name: "Unregistered spelling", designator: "franco suico", ok: false},
		{name: "Unknown long name", designator: "bitcoin", ok: false},
		{name: "Two characters", designator: "us", ok: false},
		{name: "Four characters", designator: "usdt", ok: false},
		{name: "Empty", designator: "", ok: false},
		{name: "Only spaces", designator: "   ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := r.Resolve(tt.designator)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestResolve_EveryTableEntry(t *testing.T) {
	r := New(DefaultTable())

	for _, entry := range r.Entries() {
		code, ok := r.Resolve(entry.Name)
		assert.True(t, ok, entry.Name)
		assert.Equal(t, entry.Code, code, entry.Name)
	}
}

func TestResolve_ThreeRuneAccentedInput(t *testing.T) {
	// Длина считается в символах, а не в байтах
	r := New(NewTable(nil))

	code, ok := r.Resolve("açú")
	assert.True(t, ok)
	assert.Equal(t, models.CurrencyCode("AÇÚ"), code)
}

func TestNewTable_CopiesInput(t *testing.T) {
	source := map[string]models.CurrencyCode{"Peso": "MXN"}
	r := New(NewTable(source))

	source["peso"] = "ARS"

	code, ok := r.Resolve("peso")
	assert.True(t, ok)
	assert.Equal(t, models.CurrencyCode("MXN"), code)
}

func TestEntries_SortedByName(t *testing.T) {
	entries := New(DefaultTable()).Entries()

	assert.Len(t, entries, 8)
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Name, entries[i].Name)
	}
}
