package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Сумма не является десятичным числом
var ErrInvalidAmount = errors.New("invalid amount")

// Знаков после запятой при выводе суммы
const DisplayPlaces = 2

// Разбираем сумму, введённую пользователем. Допускается запятая как десятичный разделитель
func ParseAmount(input string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	if normalized == "" {
		return decimal.Zero, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}

	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}

	return amount, nil
}

// Пересчитываем сумму из base в target: amount * rate
func Multiply(amount decimal.Decimal, rate float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(rate))
}

// Обратный пересчёт из target в base: amount / rate. Курс должен быть положительным
func Divide(amount decimal.Decimal, rate float64) (decimal.Decimal, error) {
	if rate <= 0 {
		return decimal.Zero, fmt.Errorf("cannot divide by non-positive rate %v", rate)
	}
	return amount.Div(decimal.NewFromFloat(rate)), nil
}

// Форматируем сумму для вывода: два знака после точки
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(DisplayPlaces)
}
