package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"currency_converter/internal/config"
	"currency_converter/internal/metrics"
	"currency_converter/internal/models"

	"github.com/sirupsen/logrus"
)

// Ограничение на размер ответа провайдера
const maxResponseSize = 1 << 20

// Клиент провайдера курсов (exchangerate-api v6)
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	metrics    *metrics.Metrics
	logger     *logrus.Logger
}

// Создаём новый клиент провайдера курсов. metrics может быть nil
func New(cfg *config.ExternalConfig, m *metrics.Metrics, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		metrics: m,
		logger:  logger,
	}
}

// Lookup запрашивает у провайдера таблицу курсов для base и возвращает курс base -> target.
// Выполняется ровно один запрос, без повторов и без кеширования.
// Ошибка всегда имеет тип *LookupError.
func (c *Client) Lookup(ctx context.Context, base, target models.CurrencyCode) (*models.ConversionRate, error) {
	started := time.Now()
	fields := logrus.Fields{"base": base, "target": target}

	rate, err := c.lookup(ctx, base, target)
	if err != nil {
		c.metrics.ObserveLookup(outcomeOf(err), started)
		c.logger.WithError(err).WithFields(fields).Warn("Rate lookup failed")
		return nil, err
	}

	c.metrics.ObserveLookup(metrics.OutcomeSuccess, started)
	c.logger.WithFields(fields).WithFields(logrus.Fields{
		"rate":       rate.Rate,
		"updated_at": rate.UpdatedAt,
	}).Info("Rate lookup succeeded")

	return rate, nil
}

func (c *Client) lookup(ctx context.Context, base, target models.CurrencyCode) (*models.ConversionRate, error) {
	// Код базовой валюты не проверяется: неверный код вернётся ошибкой провайдера
	endpoint := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, url.PathEscape(c.apiKey), url.PathEscape(base.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, transportFailure(fmt.Errorf("failed to create request: %w", c.maskKey(err)))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Currency-Converter/1.0")

	c.logger.WithField("base", base).Debug("Requesting rate table from provider")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportFailure(fmt.Errorf("failed to make request: %w", c.maskKey(err)))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, transportFailure(fmt.Errorf("failed to read response body: %w", err))
	}

	c.logger.WithFields(logrus.Fields{
		"status":        resp.StatusCode,
		"response_size": len(body),
	}).Debug("Provider responded")

	// Провайдер отдаёт ошибки JSON-ом с кодами 4xx, поэтому статус смотрим только если тело не разобралось
	var apiResp models.ProviderResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, transportFailure(fmt.Errorf("provider returned status %d", resp.StatusCode))
		}
		return nil, transportFailure(fmt.Errorf("failed to unmarshal response: %w", err))
	}

	return parseRate(&apiResp, base, target)
}

// parseRate превращает разобранный ответ провайдера в курс или типизированную ошибку
func parseRate(apiResp *models.ProviderResponse, base, target models.CurrencyCode) (*models.ConversionRate, error) {
	// null или {} разбираются без ошибки, но ответом провайдера не являются
	if apiResp.Result == "" {
		return nil, transportFailure(errors.New("provider response has no result field"))
	}

	if apiResp.Result != models.ProviderResultSuccess {
		reason := apiResp.ErrorType
		if reason == "" {
			reason = "result=" + apiResp.Result
		}
		return nil, providerFailure(reason)
	}

	value, ok := apiResp.ConversionRates[target.String()]
	if !ok {
		return nil, unknownTarget(target)
	}

	if value <= 0 {
		return nil, providerFailure(fmt.Sprintf("non-positive rate %v for %s", value, target))
	}

	return &models.ConversionRate{
		Base:      base,
		Target:    target,
		Rate:      value,
		UpdatedAt: apiResp.TimeLastUpdate,
	}, nil
}

// Ключ API входит в путь запроса, а *url.Error печатает URL целиком
func (c *Client) maskKey(err error) error {
	var urlErr *url.Error
	if c.apiKey == "" || !errors.As(err, &urlErr) {
		return err
	}

	masked := *urlErr
	masked.URL = strings.ReplaceAll(masked.URL, url.PathEscape(c.apiKey), "***")
	masked.URL = strings.ReplaceAll(masked.URL, c.apiKey, "***")
	return &masked
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrUnknownTargetCurrency):
		return metrics.OutcomeUnknownTarget
	case errors.Is(err, ErrProviderReportedFailure):
		return metrics.OutcomeProviderFailure
	default:
		return metrics.OutcomeTransport
	}
}
