package external

import (
	"errors"
	"fmt"

	"currency_converter/internal/models"
)

// Виды ошибок запроса курса. Сравниваются через errors.Is
var (
	ErrTransportFailure        = errors.New("transport failure")
	ErrProviderReportedFailure = errors.New("provider reported failure")
	ErrUnknownTargetCurrency   = errors.New("unknown target currency")
)

// LookupError - ошибка запроса курса с указанием причины
type LookupError struct {
	Kind     error               // один из Err* выше
	Currency models.CurrencyCode // валюта, которой нет в таблице провайдера
	Reason   string              // пояснение провайдера (error-type)
	Err      error               // исходная ошибка транспорта
}

func (e *LookupError) Error() string {
	switch {
	case e.Kind == ErrUnknownTargetCurrency:
		return fmt.Sprintf("%s: %s", e.Kind, e.Currency)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	default:
		return e.Kind.Error()
	}
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func (e *LookupError) Is(target error) bool {
	return target == e.Kind
}

func transportFailure(err error) *LookupError {
	return &LookupError{Kind: ErrTransportFailure, Err: err}
}

func providerFailure(reason string) *LookupError {
	return &LookupError{Kind: ErrProviderReportedFailure, Reason: reason}
}

func unknownTarget(code models.CurrencyCode) *LookupError {
	return &LookupError{Kind: ErrUnknownTargetCurrency, Currency: code}
}
