package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статус успешного ответа провайдера курсов
const ProviderResultSuccess = "success"

// CurrencyCode - нормализованный трёхбуквенный код валюты (USD, BRL, ...)
type CurrencyCode string

func (c CurrencyCode) String() string {
	return string(c)
}

// Курс конвертации: сколько единиц Target за одну единицу Base
type ConversionRate struct {
	Base      CurrencyCode `json:"base"`
	Target    CurrencyCode `json:"target"`
	Rate      float64      `json:"rate"`
	UpdatedAt string       `json:"updated_at"` // время обновления от провайдера, только для отображения
}

// Результат конвертации суммы
type Conversion struct {
	From   CurrencyCode    `json:"from"`
	To     CurrencyCode    `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Rate   ConversionRate  `json:"rate"`
	Result decimal.Decimal `json:"result"`
}

// Запись журнала конвертаций
type JournalEntry struct {
	ID            string          `json:"id" db:"id"`
	From          CurrencyCode    `json:"from" db:"from_currency"`
	To            CurrencyCode    `json:"to" db:"to_currency"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Rate          float64         `json:"rate" db:"rate"`
	Result        decimal.Decimal `json:"result" db:"result"`
	RateUpdatedAt string          `json:"rate_updated_at" db:"rate_updated_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Ответ от провайдера курсов (exchangerate-api v6)
type ProviderResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type,omitempty"`
	BaseCode        string             `json:"base_code,omitempty"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	TimeLastUpdate  string             `json:"time_last_update_utc"`
}

// Ответ API с результатом конвертации
type ConversionResponse struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    string  `json:"amount"`
	Rate      float64 `json:"rate"`
	Result    string  `json:"result"`
	UpdatedAt string  `json:"updated_at"`
}

// Поддерживаемая валюта: название и код
type CurrencyResponse struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
