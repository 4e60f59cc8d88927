package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"currency_converter/internal/converter"
	"currency_converter/internal/external"
	"currency_converter/internal/logger"
	"currency_converter/internal/models"
	"currency_converter/internal/resolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Мок провайдера курсов
type MockRateLookup struct {
	mock.Mock
}

func (m *MockRateLookup) Lookup(ctx context.Context, base, target models.CurrencyCode) (*models.ConversionRate, error) {
	args := m.Called(ctx, base, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversionRate), args.Error(1)
}

// Запускаем меню на заданном вводе и возвращаем всё, что было напечатано
func run(t *testing.T, rates *MockRateLookup, input string) string {
	t.Helper()

	svc := converter.New(resolver.New(resolver.DefaultTable()), rates, nil, nil, logger.Discard())

	var out bytes.Buffer
	c := New(svc, strings.NewReader(input), &out, logger.Discard())
	require.NoError(t, c.Run(context.Background()))

	return out.String()
}

func usdBRL(value float64) *models.ConversionRate {
	return &models.ConversionRate{Base: "USD", Target: "BRL", Rate: value, UpdatedAt: "Sat, 18 Oct 2026 00:00:01 +0000"}
}

func TestRun_RealToDollar(t *testing.T) {
	rates := new(MockRateLookup)
	rates.On("Lookup", mock.Anything, models.CurrencyCode("USD"), models.CurrencyCode("BRL")).Return(usdBRL(5.00), nil)

	out := run(t, rates, "1\n100.00\n0\n")

	assert.Contains(t, out, "100.00 reais = 20.00 dólares")
	assert.Contains(t, out, "Cotação atualizada em: Sat, 18 Oct 2026 00:00:01 +0000")
	assert.Contains(t, out, "Saindo do programa...")
	assert.True(t, strings.HasSuffix(out, "=== Conversor finalizado ===\n"))
	rates.AssertExpectations(t)
}

func TestRun_CommaDecimalAmount(t *testing.T) {
	rates := new(MockRateLookup)
	rates.On("Lookup", mock.Anything, models.CurrencyCode("USD"), models.CurrencyCode("BRL")).Return(usdBRL(5.00), nil)

	out := run(t, rates, "2\n50,5\n0\n")

	assert.Contains(t, out, "50.50 dólares = 252.50 reais")
}

func TestRun_InvalidAmountReprompts(t *testing.T) {
	rates := new(MockRateLookup)
	rates.On("Lookup", mock.Anything, models.CurrencyCode("USD"), models.CurrencyCode("BRL")).Return(usdBRL(5.00), nil)

	out := run(t, rates, "2\nabc\n\n10\n0\n")

	assert.Equal(t, 2, strings.Count(out, "Valor inválido! Digite apenas números."))
	assert.Equal(t, 3, strings.Count(out, "Digite o valor a ser convertido: "))
	assert.Contains(t, out, "10.00 dólares = 50.00 reais")
	rates.AssertNumberOfCalls(t, "Lookup", 1)
}

func TestRun_InvalidMenuSelection(t *testing.T) {
	rates := new(MockRateLookup)

	out := run(t, rates, "abc\n9\n0\n")

	assert.Contains(t, out, "Opção inválida! Digite apenas números.")
	assert.Contains(t, out, "Opção inválida!\n")
	// Меню показано заново после каждой ошибки
	assert.Equal(t, 3, strings.Count(out, "=== Conversor de Moedas ==="))
	rates.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_CustomConversion(t *testing.T) {
	rates := new(MockRateLookup)
	rates.On("Lookup", mock.Anything, models.CurrencyCode("EUR"), models.CurrencyCode("JPY")).
		Return(&models.ConversionRate{Base: "EUR", Target: "JPY", Rate: 160}, nil)

	out := run(t, rates, "7\nEuro\njpy\n2,5\n0\n")

	assert.Contains(t, out, "Moedas suportadas (nome ou sigla):")
	assert.Contains(t, out, "- dólar (USD)")
	assert.Contains(t, out, "2.50 EUR = 400.00 JPY")
	assert.NotContains(t, out, "Cotação atualizada em")
}

func TestRun_CustomUnresolvableDesignator(t *testing.T) {
	rates := new(MockRateLookup)

	out := run(t, rates, "7\nbitcoin\nreal\n0\n")

	assert.Contains(t, out, "Moeda inválida! Veja a lista de moedas suportadas.")
	// Список показан до ввода и после ошибки
	assert.Equal(t, 2, strings.Count(out, "Moedas suportadas (nome ou sigla):"))
	assert.NotContains(t, out, "Digite o valor a ser convertido")
	rates.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_LookupErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Transport failure",
			err:      &external.LookupError{Kind: external.ErrTransportFailure, Err: errors.New("connection refused")},
			expected: "Erro ao buscar cotação: connection refused",
		},
		{
			name:     "Provider failure",
			err:      &external.LookupError{Kind: external.ErrProviderReportedFailure},
			expected: "Erro: falha ao obter dados da API.",
		},
		{
			name:     "Unknown target",
			err:      &external.LookupError{Kind: external.ErrUnknownTargetCurrency, Currency: "BRL"},
			expected: "Erro: moeda BRL não encontrada.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := new(MockRateLookup)
			rates.On("Lookup", mock.Anything, models.CurrencyCode("USD"), models.CurrencyCode("BRL")).Return(nil, tt.err)

			out := run(t, rates, "1\n100\n0\n")

			assert.Contains(t, out, tt.expected)
			assert.NotContains(t, out, "reais =")
			// После ошибки меню показывается снова, выход работает
			assert.Equal(t, 2, strings.Count(out, "=== Conversor de Moedas ==="))
			assert.Contains(t, out, "Saindo do programa...")
		})
	}
}

func TestRun_CustomLookupFailureSkipsAmount(t *testing.T) {
	rates := new(MockRateLookup)
	rates.On("Lookup", mock.Anything, models.CurrencyCode("USD"), models.CurrencyCode("XYZ")).
		Return(nil, &external.LookupError{Kind: external.ErrUnknownTargetCurrency, Currency: "XYZ"})

	out := run(t, rates, "7\nusd\nxyz\n0\n")

	assert.Contains(t, out, "Erro: moeda XYZ não encontrada.")
	assert.NotContains(t, out, "Digite o valor a ser convertido")
}

func TestRun_EndOfInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "At menu", input: ""},
		{name: "At amount prompt", input: "1\n"},
		{name: "At custom source", input: "7\n"},
		{name: "At custom target", input: "7\nreal\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, new(MockRateLookup), tt.input)
			assert.True(t, strings.HasSuffix(out, "=== Conversor finalizado ===\n"))
		})
	}
}
