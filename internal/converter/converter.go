// Package converter связывает разбор названий валют, запрос курса и пересчёт суммы.
package converter

import (
	"context"
	"errors"
	"fmt"

	"currency_converter/internal/metrics"
	"currency_converter/internal/models"
	"currency_converter/internal/resolver"
	"currency_converter/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	// Обозначение не найдено в таблице и не похоже на трёхбуквенный код
	ErrUnresolvableDesignator = errors.New("unresolvable currency designator")
	// Нет готовой пары с таким номером
	ErrUnknownOption = errors.New("unknown conversion option")
)

// RateLookup запрашивает курс base -> target у провайдера
type RateLookup interface {
	Lookup(ctx context.Context, base, target models.CurrencyCode) (*models.ConversionRate, error)
}

// Journal сохраняет выполненные конвертации
type Journal interface {
	SaveConversion(ctx context.Context, conversion *models.Conversion) (*models.JournalEntry, error)
}

// Service выполняет конвертации
type Service struct {
	resolver *resolver.Resolver
	rates    RateLookup
	journal  Journal
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

// New создаёт сервис. journal и m могут быть nil
func New(r *resolver.Resolver, rates RateLookup, journal Journal, m *metrics.Metrics, logger *logrus.Logger) *Service {
	return &Service{
		resolver: r,
		rates:    rates,
		journal:  journal,
		metrics:  m,
		logger:   logger,
	}
}

// Resolve превращает обозначение валюты в код
func (s *Service) Resolve(designator string) (models.CurrencyCode, error) {
	code, ok := s.resolver.Resolve(designator)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnresolvableDesignator, designator)
	}
	return code, nil
}

// SupportedCurrencies возвращает известные названия валют
func (s *Service) SupportedCurrencies() []resolver.Entry {
	return s.resolver.Entries()
}

// Quote разбирает обе валюты и запрашивает курс from -> to
func (s *Service) Quote(ctx context.Context, from, to string) (*models.ConversionRate, error) {
	base, err := s.Resolve(from)
	if err != nil {
		return nil, err
	}

	target, err := s.Resolve(to)
	if err != nil {
		return nil, err
	}

	return s.rates.Lookup(ctx, base, target)
}

// ConvertCustom пересчитывает amount из from в to по текущему курсу
func (s *Service) ConvertCustom(ctx context.Context, from, to string, amount decimal.Decimal) (*models.Conversion, error) {
	rate, err := s.Quote(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return s.ConvertWithRate(ctx, rate, amount), nil
}

// ConvertWithRate пересчитывает amount из rate.Base в rate.Target уже полученным курсом
func (s *Service) ConvertWithRate(ctx context.Context, rate *models.ConversionRate, amount decimal.Decimal) *models.Conversion {
	conversion := &models.Conversion{
		From:   rate.Base,
		To:     rate.Target,
		Amount: amount,
		Rate:   *rate,
		Result: utils.Multiply(amount, rate.Rate),
	}

	s.record(ctx, conversion)

	return conversion
}

// ConvertPreset выполняет конвертацию по готовой паре из меню
func (s *Service) ConvertPreset(ctx context.Context, option int, amount decimal.Decimal) (*models.Conversion, error) {
	preset, ok := FindPreset(option)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOption, option)
	}

	rate, err := s.rates.Lookup(ctx, preset.Base, preset.Target)
	if err != nil {
		return nil, err
	}

	conversion := &models.Conversion{
		Amount: amount,
		Rate:   *rate,
	}

	switch preset.Direction {
	case Divide:
		result, err := utils.Divide(amount, rate.Rate)
		if err != nil {
			return nil, err
		}
		conversion.From, conversion.To = preset.Target, preset.Base
		conversion.Result = result
	default:
		conversion.From, conversion.To = preset.Base, preset.Target
		conversion.Result = utils.Multiply(amount, rate.Rate)
	}

	s.record(ctx, conversion)

	return conversion, nil
}

// Пишем конвертацию в метрики и журнал. Ошибка журнала не мешает пользователю
func (s *Service) record(ctx context.Context, conversion *models.Conversion) {
	s.metrics.ObserveConversion(conversion.From.String(), conversion.To.String())

	if s.journal == nil {
		return
	}

	if _, err := s.journal.SaveConversion(ctx, conversion); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"from": conversion.From,
			"to":   conversion.To,
		}).Warn("Failed to save conversion to journal")
	}
}
